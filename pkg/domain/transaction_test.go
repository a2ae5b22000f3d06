package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/aretw0/hexwire/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestTimeoutFromMillis(t *testing.T) {
	assert.Equal(t, time.Duration(0), domain.TimeoutFromMillis(0))
	assert.Equal(t, 1500*time.Millisecond, domain.TimeoutFromMillis(1500))
	assert.Equal(t, domain.MaxTimeout, domain.TimeoutFromMillis(domain.MaxTimeoutMS))
	assert.Equal(t, domain.MaxTimeout, domain.TimeoutFromMillis(domain.MaxTimeoutMS+1))

	// Values that would overflow time.Duration are clamped, never negative.
	assert.Equal(t, domain.MaxTimeout, domain.TimeoutFromMillis(10_000_000_000_000))
	assert.Equal(t, domain.MaxTimeout, domain.TimeoutFromMillis(math.MaxUint64))
}

func TestPreset_RequestClampsTimeout(t *testing.T) {
	p := domain.Preset{Host: " 10.0.0.5 ", Port: 502, Payload: "01", TimeoutMS: math.MaxUint64}
	req := p.Request()
	assert.Equal(t, "10.0.0.5", req.Host)
	assert.Equal(t, domain.MaxTimeout, req.Timeout)
}

package domain

import "strings"

// Preset is a saved transaction an operator can replay by name.
type Preset struct {
	Name        string `json:"name"`
	Host        string `json:"host"`
	Port        uint16 `json:"port"`
	Payload     string `json:"data"`
	TimeoutMS   uint64 `json:"timeout_ms,omitempty"`
	Description string `json:"description,omitempty"`
}

// Request converts the preset into a transaction request.
func (p Preset) Request() TransactionRequest {
	return TransactionRequest{
		Host:       strings.TrimSpace(p.Host),
		Port:       p.Port,
		PayloadHex: p.Payload,
		Timeout:    TimeoutFromMillis(p.TimeoutMS),
	}
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/hexwire/internal/presentation/tui"
	"github.com/aretw0/hexwire/pkg/domain"
)

// ErrTransactionFailed is returned after a failure has been printed to the user.
var ErrTransactionFailed = errors.New("transaction failed")

// SendOptions describes one `hexwire send` invocation.
// Fields left zero fall back to the preset named by Preset, if any.
type SendOptions struct {
	Host      string
	Port      uint16
	Data      string
	TimeoutMS uint64
	Preset    string
	Stdout    io.Writer
	Stderr    io.Writer
	// Styled renders failures with glamour.
	Styled bool
}

// Send performs one transaction and prints the response hex to Stdout.
// Failures are printed with remediation to Stderr and returned wrapped in
// ErrTransactionFailed.
func Send(ctx context.Context, app *App, opts SendOptions) error {
	req, err := resolveRequest(ctx, app, opts)
	if err != nil {
		return err
	}

	var res domain.TransactionResult
	err = app.Crash.Guard(ctx, func() error {
		res = app.Client.Execute(ctx, req)
		return nil
	})
	if err != nil {
		return err
	}

	if res.Failure != nil {
		if perr := tui.PrintFailure(opts.Stderr, res.Failure, opts.Styled); perr != nil {
			return perr
		}
		return fmt.Errorf("%w: %w", ErrTransactionFailed, res.Failure)
	}

	fmt.Fprintln(opts.Stdout, res.ResponseHex)
	if res.Truncated {
		printSystemMessage(opts.Stderr, "Response truncated: %v", res.TruncatedBy)
	}
	return nil
}

func resolveRequest(ctx context.Context, app *App, opts SendOptions) (domain.TransactionRequest, error) {
	req := domain.TransactionRequest{}
	if opts.Preset != "" {
		presets, err := app.Presets()
		if err != nil {
			return req, err
		}
		p, err := presets.Get(ctx, opts.Preset)
		if err != nil {
			return req, fmt.Errorf("error loading preset %q: %w", opts.Preset, err)
		}
		req = p.Request()
	}

	if opts.Host != "" {
		req.Host = opts.Host
	}
	if opts.Port != 0 {
		req.Port = opts.Port
	}
	if opts.Data != "" {
		req.PayloadHex = opts.Data
	}
	if opts.TimeoutMS != 0 {
		req.Timeout = domain.TimeoutFromMillis(opts.TimeoutMS)
	}
	return req, nil
}

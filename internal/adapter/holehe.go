package adapter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"handlescope/internal/domain"
)

// Holehe checks which sites have an account for addresses built from the
// username and each configured email provider.
type Holehe struct {
	tool
}

// NewHolehe creates a holehe adapter
func NewHolehe(opts ...Option) *Holehe {
	return &Holehe{tool: newTool("holehe", opts)}
}

// Candidates returns the addresses checked for username
func (h *Holehe) Candidates(username string) []string {
	out := make([]string, 0, len(h.opts.providers))
	for _, p := range h.opts.providers {
		p = strings.TrimPrefix(strings.TrimSpace(p), "@")
		if p == "" {
			continue
		}
		out = append(out, username+"@"+p)
	}
	return out
}

// Discover implements Adapter. Each candidate runs under its own timeout;
// a failed candidate is logged and skipped. An error is returned only
// when every candidate failed.
func (h *Holehe) Discover(ctx context.Context, username string) ([]*domain.IdentityRecord, error) {
	if !h.Available() {
		return nil, nil
	}

	dir, cleanup, err := h.workDir()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	candidates := h.Candidates(username)
	var (
		records []*domain.IdentityRecord
		errs    []error
	)
	for _, email := range candidates {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}

		res, err := h.run(ctx, h.opts.emailTimeout, email, "--only-used", "--no-color")
		if err != nil {
			h.opts.log.Warn("Holehe check failed", zap.String("email", email), zap.Error(err))
			errs = append(errs, err)
			continue
		}

		raw := filepath.Join(dir, RawOutputName(email))
		if err := os.WriteFile(raw, res.Stdout, 0o644); err != nil {
			h.opts.log.Warn("Could not save holehe output", zap.String("path", raw), zap.Error(err))
		}

		services := ParseHoleheServices(string(res.Output()))
		if len(services) == 0 {
			continue
		}
		rec := domain.NewEmailRecord(LabelFromHost(emailDomain(email)), email, h.source())
		rec.Services = services
		records = append(records, rec)
	}

	if len(errs) > 0 && len(errs) >= len(candidates) {
		return nil, fmt.Errorf("all %d candidates failed: %w", len(candidates), errors.Join(errs...))
	}
	return records, nil
}

// RawOutputName is the file holehe output for email is saved to
func RawOutputName(email string) string {
	return "holehe_" + strings.ReplaceAll(email, "@", "_at_") + ".txt"
}

// ParseHoleheServices returns the sites holehe marked with [+], in order
func ParseHoleheServices(output string) []string {
	var services []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(strings.NewReader(stripANSI(output)))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		rest, ok := strings.CutPrefix(line, "[+]")
		if !ok {
			continue
		}
		// legend line: "[+] Email used, [-] Email not used, [x] Rate limit"
		if strings.Contains(rest, "Email used") {
			continue
		}
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		svc := strings.ToLower(fields[0])
		if !seen[svc] {
			seen[svc] = true
			services = append(services, svc)
		}
	}
	return services
}

func emailDomain(email string) string {
	if i := strings.LastIndexByte(email, '@'); i >= 0 {
		return email[i+1:]
	}
	return email
}

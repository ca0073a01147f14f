// Package mail sends transactional email through the ZeptoMail REST
// API.
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type Sender struct {
	endpoint string
	token    string
	from     string
	http     *http.Client
}

// New builds a sender. from is an RFC-style address, optionally with a
// display name: `FastLogix <noreply@fastlogix.org>`.
func New(endpoint, token, from string) *Sender {
	return &Sender{
		endpoint: endpoint,
		token:    token,
		from:     from,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

type address struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type recipient struct {
	EmailAddress address `json:"email_address"`
}

type payload struct {
	From     address     `json:"from"`
	To       []recipient `json:"to"`
	Subject  string      `json:"subject"`
	HTMLBody string      `json:"htmlbody"`
}

// Send delivers one HTML email.
func (s *Sender) Send(ctx context.Context, to, toName, subject, html string) error {
	if s.token == "" {
		return errors.New("mail: token not configured")
	}

	fromAddr, fromName := splitFrom(s.from)
	body, err := json.Marshal(payload{
		From:     address{Address: fromAddr, Name: fromName},
		To:       []recipient{{EmailAddress: address{Address: to, Name: toName}}},
		Subject:  subject,
		HTMLBody: html,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	// ZeptoMail expects the token verbatim, prefix included.
	req.Header.Set("Authorization", s.token)

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("mail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("mail: API error %d: %s", resp.StatusCode, respBody)
	}
	return nil
}

// splitFrom separates `Name <addr>` into its parts; a bare address
// passes through with no name.
func splitFrom(from string) (addr, name string) {
	open := strings.Index(from, "<")
	end := strings.Index(from, ">")
	if open >= 0 && end > open {
		return strings.TrimSpace(from[open+1 : end]), strings.TrimSpace(from[:open])
	}
	return strings.TrimSpace(from), ""
}

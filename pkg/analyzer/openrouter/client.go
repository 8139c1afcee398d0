// Package openrouter provides an analyzer.Analyzer backed by the OpenRouter
// chat completions API.
package openrouter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"medscan/pkg/analyzer"
	"medscan/pkg/domain"
	"medscan/pkg/logger"
	"medscan/pkg/metrics"
	"medscan/pkg/serrors"
	"medscan/pkg/vault"
	"net/http"
	"strings"
	"time"

	faster "github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	// DefaultModel is the model asked for a verdict.
	DefaultModel = "anthropic/claude-3-sonnet"
	// DefaultMaxTokens bounds the reply length.
	DefaultMaxTokens = 300

	upstreamName = "openrouter"
	maxBodyBytes = 1 << 20
)

var tracer = otel.Tracer("medscan/pkg/analyzer/openrouter") //nolint: gochecknoglobals

// Options configure the client. Zero values fall back to the defaults above.
type Options struct {
	BaseURL   string
	Model     string
	MaxTokens int
	// Referer and Title are sent as OpenRouter's optional app attribution headers.
	Referer string
	Title   string
}

// Client calls the chat completions endpoint. The credential is read from the
// vault on every call, so a credential set at runtime is picked up by the next
// analysis.
type Client struct {
	httpClient *http.Client
	vault      vault.Vault
	baseURL    string
	model      string
	maxTokens  int
	referer    string
	title      string
}

// Analyze sends the safety prompt for code and classifies the reply.
func (c *Client) Analyze(
	ctx context.Context,
	code domain.BarcodeCode,
	profile domain.HealthProfile,
	product *domain.ProductRecord,
) (*domain.SafetyVerdict, error) {
	credential, err := c.vault.Get(ctx)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "openrouter.Analyze", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", c.model), attribute.Bool("product.known", product != nil))

	start := time.Now()
	reply, err := c.complete(ctx, credential, analyzer.BuildPrompt(code, profile, product))

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = serrors.KindOf(err).Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logger.Debug(ctx, "safety analysis failed", zap.String("outcome", outcome), zap.Error(err))
	}
	metrics.UpstreamRequestDuration.WithLabelValues(upstreamName, outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	verdict := analyzer.Classify(reply)
	span.SetAttributes(attribute.String("verdict.status", string(verdict.Status)))

	return &verdict, nil
}

func (c *Client) complete(ctx context.Context, credential domain.APICredential, prompt string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions",
		bytes.NewReader(EncodeRequest(c.model, c.maxTokens, prompt)))
	if err != nil {
		return "", fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+credential.Reveal())
	if c.referer != "" {
		req.Header.Set("HTTP-Referer", c.referer)
	}
	if c.title != "" {
		req.Header.Set("X-Title", c.title)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrTransport, err, "could not reach analysis service")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", serrors.Wrap(serrors.ErrTransport, err, "could not read analysis response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", serrors.With(serrors.ErrTransport,
			"analysis failed with status %d: %s", resp.StatusCode, upstreamMessage(b))
	}

	reply, err := DecodeReply(b)
	if err != nil {
		return "", serrors.Wrap(serrors.ErrDecode, err, "could not decode analysis response")
	}
	if reply.Error != "" {
		return "", serrors.With(serrors.ErrTransport, "analysis service returned an error: %s", reply.Error)
	}
	if !reply.HasChoices {
		return "", serrors.With(serrors.ErrDecode, `analysis response has no "choices"`)
	}
	if reply.Choices == 0 || strings.TrimSpace(reply.Content) == "" {
		return "", serrors.KindOnly(serrors.ErrEmptyReply)
	}

	return reply.Content, nil
}

// EncodeRequest renders the chat completions request body.
func EncodeRequest(model string, maxTokens int, prompt string) []byte {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("max_tokens")
	e.Int(maxTokens)
	e.FieldStart("model")
	e.Str(model)
	e.FieldStart("messages")
	e.ArrStart()
	e.ObjStart()
	e.FieldStart("role")
	e.Str("user")
	e.FieldStart("content")
	e.Str(prompt)
	e.ObjEnd()
	e.ArrEnd()
	e.ObjEnd()

	return e.Bytes()
}

// Reply is the part of a chat completions response the analyzer reads.
type Reply struct {
	// HasChoices is false when the "choices" key is absent.
	HasChoices bool
	// Choices counts the entries of "choices".
	Choices int
	// Content is the first choice's message content.
	Content string
	// Error is the message of an in-band {"error":{...}} object.
	Error string
}

// DecodeReply parses a chat completions response. Unknown fields are skipped.
func DecodeReply(b []byte) (Reply, error) {
	var r Reply

	d := jx.DecodeBytes(b)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "choices":
			r.HasChoices = true
			if d.Next() == jx.Null {
				return d.Null()
			}

			return d.Arr(func(d *jx.Decoder) error {
				r.Choices++
				if r.Choices > 1 {
					return d.Skip()
				}
				content, err := decodeChoice(d)
				r.Content = content

				return err
			})
		case "error":
			msg, err := decodeErrorMessage(d)
			r.Error = msg

			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return Reply{}, faster.Wrap(err, "chat completion envelope")
	}

	return r, nil
}

func decodeChoice(d *jx.Decoder) (string, error) {
	var content string
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "message" {
			return d.Skip()
		}

		return d.Obj(func(d *jx.Decoder, key string) error {
			if key != "content" {
				return d.Skip()
			}
			if d.Next() == jx.Null {
				return d.Null()
			}
			s, err := d.Str()
			if err != nil {
				return faster.Wrap(err, "message content")
			}
			content = s

			return nil
		})
	})

	return content, err
}

func decodeErrorMessage(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.Null:
		return "", d.Null()
	case jx.String:
		return d.Str()
	case jx.Object:
	default:
		return "", d.Skip()
	}

	msg := "unknown error"
	err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "message" || d.Next() != jx.String {
			return d.Skip()
		}
		s, err := d.Str()
		if err == nil && s != "" {
			msg = s
		}

		return err
	})

	return msg, err
}

// upstreamMessage extracts an error message from a non-2xx body, falling back
// to the trimmed raw text.
func upstreamMessage(b []byte) string {
	if r, err := DecodeReply(b); err == nil && r.Error != "" {
		return r.Error
	}

	return strings.TrimSpace(string(b))
}

var _ analyzer.Analyzer = (*Client)(nil)

// New constructs a Client that authenticates with the credential held by v.
func New(httpClient *http.Client, v vault.Vault, options Options) *Client {
	c := &Client{
		httpClient: httpClient,
		vault:      v,
		baseURL:    strings.TrimRight(options.BaseURL, "/"),
		model:      options.Model,
		maxTokens:  options.MaxTokens,
		referer:    options.Referer,
		title:      options.Title,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.maxTokens <= 0 {
		c.maxTokens = DefaultMaxTokens
	}

	return c
}

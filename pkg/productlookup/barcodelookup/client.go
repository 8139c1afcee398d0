// Package barcodelookup provides a productlookup.Resolver backed by the
// barcodelookup.com v3 REST API.
package barcodelookup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"medscan/pkg/domain"
	"medscan/pkg/logger"
	"medscan/pkg/metrics"
	"medscan/pkg/productlookup"
	"medscan/pkg/serrors"
	"net/http"
	"net/url"
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
	// DefaultBaseURL is the public barcodelookup.com API root.
	DefaultBaseURL = "https://api.barcodelookup.com/v3"

	upstreamName = "barcodelookup"
	// maxBodyBytes caps how much of a response is read.
	maxBodyBytes = 1 << 20
)

var tracer = otel.Tracer("medscan/pkg/productlookup/barcodelookup") //nolint: gochecknoglobals

// Options configure the client.
type Options struct {
	// BaseURL overrides DefaultBaseURL, mainly for tests.
	BaseURL string
	// APIKey is the barcodelookup.com key sent as the "key" query parameter.
	APIKey string
}

// Client talks to the barcodelookup.com API. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Resolve fetches the products known for code and returns the first one.
func (c *Client) Resolve(ctx context.Context, code domain.BarcodeCode) (*domain.ProductRecord, error) {
	ctx, span := tracer.Start(ctx, "barcodelookup.Resolve", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("barcode.format", string(code.Format())))

	start := time.Now()
	product, err := c.resolve(ctx, code)

	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = serrors.KindOf(err).Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		logger.Debug(ctx, "product lookup failed", zap.String("outcome", outcome), zap.Error(err))
	}
	metrics.UpstreamRequestDuration.WithLabelValues(upstreamName, outcome).Observe(time.Since(start).Seconds())

	return product, err
}

func (c *Client) resolve(ctx context.Context, code domain.BarcodeCode) (*domain.ProductRecord, error) {
	q := url.Values{}
	q.Set("barcode", code.String())
	q.Set("formatted", "y")
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/products?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, c.redact(err), "could not reach product lookup service")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "could not read product lookup response")
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, serrors.With(serrors.ErrNotFound, "no product known for barcode")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serrors.With(serrors.ErrTransport,
			"product lookup failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	products, err := DecodeProducts(b)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrDecode, err, "could not decode product lookup response")
	}
	if len(products) == 0 {
		return nil, serrors.With(serrors.ErrNotFound, "no product known for barcode")
	}

	return &products[0], nil
}

// redact drops the request URL, which carries the API key, from transport errors.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: c.baseURL + "/products", Err: urlErr.Err}
	}

	return err
}

// DecodeProducts parses a {"products":[...]} body. A missing "products" key is
// an error; a null or empty list yields no products. Unknown fields are skipped
// and null string fields read as empty.
func DecodeProducts(b []byte) ([]domain.ProductRecord, error) {
	var (
		products []domain.ProductRecord
		seen     bool
	)

	d := jx.DecodeBytes(b)
	if err := d.Obj(func(d *jx.Decoder, key string) error {
		if key != "products" {
			return d.Skip()
		}
		seen = true
		if d.Next() == jx.Null {
			return d.Null()
		}

		return d.Arr(func(d *jx.Decoder) error {
			p, err := decodeProduct(d)
			if err != nil {
				return err
			}
			products = append(products, p)

			return nil
		})
	}); err != nil {
		return nil, faster.Wrap(err, "products envelope")
	}
	if !seen {
		return nil, faster.New(`missing "products" key`)
	}

	return products, nil
}

func decodeProduct(d *jx.Decoder) (domain.ProductRecord, error) {
	var p domain.ProductRecord
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var target *string
		switch key {
		case "title":
			target = &p.Title
		case "brand":
			target = &p.Brand
		case "description":
			target = &p.Description
		case "ingredients":
			target = &p.Ingredients
		default:
			return d.Skip()
		}

		s, err := optString(d)
		if err != nil {
			return faster.Wrapf(err, "field %q", key)
		}
		*target = strings.TrimSpace(s)

		return nil
	})

	return p, err
}

func optString(d *jx.Decoder) (string, error) {
	if d.Next() == jx.Null {
		return "", d.Null()
	}

	return d.Str()
}

var _ productlookup.Resolver = (*Client)(nil)

// New constructs a Client using httpClient for transport.
func New(httpClient *http.Client, options Options) *Client {
	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     options.APIKey,
	}
}

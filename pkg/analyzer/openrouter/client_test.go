package openrouter_test

import (
	"context"
	"errors"
	"io"
	"medscan/pkg/analyzer/openrouter"
	"medscan/pkg/domain"
	"medscan/pkg/serrors"
	mockvault "medscan/pkg/vault/mock"
	"net/http"
	"strings"
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// rtFunc allows using a function as an http.RoundTripper.
type rtFunc func(*http.Request) (*http.Response, error)

func (f rtFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

const testCredential = domain.APICredential("sk-or-test123")

func newTestClient(t *testing.T, fn rtFunc) *openrouter.Client {
	t.Helper()
	ctrl := gomock.NewController(t)
	v := mockvault.NewMockVault(ctrl)
	v.EXPECT().Get(gomock.Any()).Return(testCredential, nil).AnyTimes()

	return openrouter.New(&http.Client{Transport: fn}, v, openrouter.Options{})
}

func respond(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func completion(content string) string {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("id")
	e.Str("gen-1")
	e.FieldStart("choices")
	e.ArrStart()
	e.ObjStart()
	e.FieldStart("message")
	e.ObjStart()
	e.FieldStart("role")
	e.Str("assistant")
	e.FieldStart("content")
	e.Str(content)
	e.ObjEnd()
	e.ObjEnd()
	e.ArrEnd()
	e.ObjEnd()

	return string(e.Bytes())
}

func testBarcode(t *testing.T) domain.BarcodeCode {
	t.Helper()
	code, err := domain.ParseBarcode("1234567890123")
	require.NoError(t, err)

	return code
}

func TestClient_Analyze_success(t *testing.T) {
	c := newTestClient(t, func(r *http.Request) (*http.Response, error) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "openrouter.ai", r.URL.Host)
		require.Equal(t, "/api/v1/chat/completions", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "Bearer sk-or-test123", r.Header.Get("Authorization"))

		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var (
			model     string
			maxTokens int
			role      string
			content   string
		)
		require.NoError(t, jx.DecodeBytes(b).Obj(func(d *jx.Decoder, key string) error {
			var err error
			switch key {
			case "model":
				model, err = d.Str()
			case "max_tokens":
				maxTokens, err = d.Int()
			case "messages":
				err = d.Arr(func(d *jx.Decoder) error {
					return d.Obj(func(d *jx.Decoder, key string) error {
						var err error
						switch key {
						case "role":
							role, err = d.Str()
						case "content":
							content, err = d.Str()
						default:
							err = d.Skip()
						}

						return err
					})
				})
			default:
				err = d.Skip()
			}

			return err
		}))
		require.Equal(t, openrouter.DefaultModel, model)
		require.Equal(t, openrouter.DefaultMaxTokens, maxTokens)
		require.Equal(t, "user", role)
		require.Contains(t, content, "allergies penicillin")

		return respond(http.StatusOK, completion("Not allowed: contains penicillin derivative.")), nil
	})

	v, err := c.Analyze(context.Background(), testBarcode(t), domain.HealthProfile{Allergies: "penicillin"}, nil)
	require.NoError(t, err)
	require.Equal(t, domain.VerdictNotAllowed, v.Status)
	require.Equal(t, "contains penicillin derivative.", v.Explanation)
	require.Equal(t, "Not allowed: contains penicillin derivative.", v.RawResponse)
}

func TestClient_Analyze_credentialMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	v := mockvault.NewMockVault(ctrl)
	v.EXPECT().Get(gomock.Any()).Return(domain.APICredential(""), serrors.KindOnly(serrors.ErrCredentialMissing))

	c := openrouter.New(&http.Client{Transport: rtFunc(func(*http.Request) (*http.Response, error) {
		t.Fatal("no request must be sent without a credential")

		return nil, nil
	})}, v, openrouter.Options{})

	_, err := c.Analyze(context.Background(), testBarcode(t), domain.HealthProfile{}, nil)
	require.ErrorIs(t, err, serrors.ErrCredentialMissing)
}

func TestClient_Analyze_emptyReply(t *testing.T) {
	for name, body := range map[string]string{
		"empty content":      completion(""),
		"whitespace content": completion("  \n "),
		"null content":       `{"choices":[{"message":{"role":"assistant","content":null}}]}`,
		"zero choices":       `{"choices":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(*http.Request) (*http.Response, error) {
				return respond(http.StatusOK, body), nil
			})

			_, err := c.Analyze(context.Background(), testBarcode(t), domain.HealthProfile{}, nil)
			require.ErrorIs(t, err, serrors.ErrEmptyReply)
		})
	}
}

func TestClient_Analyze_decode(t *testing.T) {
	for name, body := range map[string]string{
		"missing choices": `{"id":"gen-1","object":"chat.completion"}`,
		"not json":        `upstream hiccup`,
		"choices object":  `{"choices":{"message":{}}}`,
		"numeric content": `{"choices":[{"message":{"content":7}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, func(*http.Request) (*http.Response, error) {
				return respond(http.StatusOK, body), nil
			})

			_, err := c.Analyze(context.Background(), testBarcode(t), domain.HealthProfile{}, nil)
			require.ErrorIs(t, err, serrors.ErrDecode)
		})
	}
}

func TestClient_Analyze_transport(t *testing.T) {
	t.Run("network error", func(t *testing.T) {
		c := newTestClient(t, func(*http.Request) (*http.Response, error) {
			return nil, errors.New("no route to host")
		})

		_, err := c.Analyze(context.Background(), testBarcode(t), domain.HealthProfile{}, nil)
		require.ErrorIs(t, err, serrors.ErrTransport)
	})

	t.Run("unauthorized status", func(t *testing.T) {
		c := newTestClient(t, func(*http.Request) (*http.Response, error) {
			return respond(http.StatusUnauthorized, `{"error":{"message":"No auth credentials found","code":401}}`), nil
		})

		_, err := c.Analyze(context.Background(), testBarcode(t), domain.HealthProfile{}, nil)
		require.ErrorIs(t, err, serrors.ErrTransport)
		require.Contains(t, err.Error(), "No auth credentials found")
		require.NotContains(t, err.Error(), testCredential.Reveal())
	})

	t.Run("in-band error", func(t *testing.T) {
		c := newTestClient(t, func(*http.Request) (*http.Response, error) {
			return respond(http.StatusOK, `{"error":{"message":"model overloaded","code":502}}`), nil
		})

		_, err := c.Analyze(context.Background(), testBarcode(t), domain.HealthProfile{}, nil)
		require.ErrorIs(t, err, serrors.ErrTransport)
		require.Contains(t, err.Error(), "model overloaded")
	})
}

func TestNew_options(t *testing.T) {
	c := openrouter.New(&http.Client{Transport: rtFunc(func(r *http.Request) (*http.Response, error) {
		require.Equal(t, "/mock/chat/completions", r.URL.Path)
		require.Equal(t, "https://medscan.local", r.Header.Get("HTTP-Referer"))
		require.Equal(t, "medscan", r.Header.Get("X-Title"))

		return respond(http.StatusOK, completion("Allowed, no contraindications found")), nil
	})}, mockVaultWith(t, testCredential), openrouter.Options{
		BaseURL: "http://127.0.0.1:9999/mock/",
		Referer: "https://medscan.local",
		Title:   "medscan",
	})

	v, err := c.Analyze(context.Background(), testBarcode(t), domain.HealthProfile{}, nil)
	require.NoError(t, err)
	require.Equal(t, domain.VerdictAllowed, v.Status)
}

func TestDecodeReply(t *testing.T) {
	r, err := openrouter.DecodeReply([]byte(`{"choices":[{"message":{"content":"first"}},{"message":{"content":"second"}}],"usage":{"total_tokens":12}}`))
	require.NoError(t, err)
	require.Equal(t, openrouter.Reply{HasChoices: true, Choices: 2, Content: "first"}, r)
}

func mockVaultWith(t *testing.T, credential domain.APICredential) *mockvault.MockVault {
	t.Helper()
	v := mockvault.NewMockVault(gomock.NewController(t))
	v.EXPECT().Get(gomock.Any()).Return(credential, nil).AnyTimes()

	return v
}

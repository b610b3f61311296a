package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/fila-atendimento/internal/domain/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/models"
)

// maximum body accepted from the upstream API
const maxBodyBytes = 16 << 20

// Client busca a fila na API de regulação.
type Client struct {
	url   string
	http  *http.Client
	retry RetryConfig
	log   zerolog.Logger
}

func NewClient(url string, timeout time.Duration, attempts int, log zerolog.Logger) *Client {
	retry := DefaultRetryConfig()
	retry.MaxAttempts = attempts

	return &Client{
		url:   url,
		http:  &http.Client{Timeout: timeout},
		retry: retry,
		log:   log,
	}
}

// FetchPatients returns the raw queue. Failures are always *queue.FetchError.
func (c *Client) FetchPatients(ctx context.Context) ([]models.APIPatient, error) {
	var out []models.APIPatient

	err := Do(ctx, c.retry, func() error {
		var err error
		out, err = c.fetchOnce(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]models.APIPatient, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &queue.FetchError{Kind: queue.FetchTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &queue.FetchError{Kind: queue.FetchTransport, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drena para reaproveitar a conexão
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &queue.FetchError{
			Kind:       queue.FetchStatus,
			StatusCode: resp.StatusCode,
		}
	}

	var records []json.RawMessage
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&records); err != nil {
		return nil, &queue.FetchError{
			Kind: queue.FetchDecode,
			Err:  fmt.Errorf("decode appointments: %w", err),
		}
	}

	return c.decodeRecords(records), nil
}

// decodeRecords decodes each record on its own so one malformed entry
// never hides the rest of the queue. Entries that are not objects are
// dropped; bad fields come back in APIPatient.DecodeWarnings.
func (c *Client) decodeRecords(records []json.RawMessage) []models.APIPatient {
	out := make([]models.APIPatient, 0, len(records))

	for i, rec := range records {
		var p models.APIPatient
		if err := json.Unmarshal(rec, &p); err != nil {
			c.log.Warn().Err(err).Int("index", i).Msg("dropping unreadable queue record")
			continue
		}
		out = append(out, p)
	}

	return out
}

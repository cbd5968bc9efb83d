package datasets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/calder-ml/prefbench/internal/domain"
	"github.com/calder-ml/prefbench/internal/ports"
)

const (
	// DefaultHubBaseURL is the Hugging Face datasets-server endpoint.
	DefaultHubBaseURL = "https://datasets-server.huggingface.co"

	// hubPageSize is the rows-per-request page size; 100 is the API's
	// maximum.
	hubPageSize = 100

	// defaultSplit is used when the caller does not request one.
	defaultSplit = "train"
)

// HubLoader loads preference pairs from the Hugging Face datasets-server
// rows API, paginating until the requested split is exhausted.
type HubLoader struct {
	client   *http.Client
	baseURL  string
	template ChatTemplate
}

var _ ports.PreferenceLoader = (*HubLoader)(nil)

// NewHubLoader creates a hub loader. An empty baseURL selects the public
// datasets-server; tests point it at a local server.
func NewHubLoader(baseURL string, template ChatTemplate) *HubLoader {
	if baseURL == "" {
		baseURL = DefaultHubBaseURL
	}
	return &HubLoader{
		client:   &http.Client{},
		baseURL:  baseURL,
		template: template,
	}
}

// rowsResponse is the datasets-server /rows payload, reduced to the fields
// the loader consumes.
type rowsResponse struct {
	Rows []struct {
		Row sourceExample `json:"row"`
	} `json:"rows"`
	NumRowsTotal int `json:"num_rows_total"`
}

// Load fetches every preference pair of the dataset's split, in dataset
// order.
func (h *HubLoader) Load(ctx context.Context, dataset, split string) ([]domain.FormattedPair, error) {
	if split == "" {
		split = defaultSplit
	}

	var pairs []domain.FormattedPair

	for offset := 0; ; offset += hubPageSize {
		page, err := h.fetchPage(ctx, dataset, split, offset)
		if err != nil {
			return nil, err
		}
		if len(page.Rows) == 0 {
			break
		}

		for _, row := range page.Rows {
			pairs = append(pairs, row.Row.format(h.template))
		}

		if page.NumRowsTotal > 0 && offset+len(page.Rows) >= page.NumRowsTotal {
			break
		}
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("dataset %s split %s contains no rows", dataset, split)
	}
	return pairs, nil
}

func (h *HubLoader) fetchPage(ctx context.Context, dataset, split string, offset int) (*rowsResponse, error) {
	query := url.Values{
		"dataset": {dataset},
		"config":  {"default"},
		"split":   {split},
		"offset":  {strconv.Itoa(offset)},
		"length":  {strconv.Itoa(hubPageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/rows?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rows request: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rows request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rows request for %s returned HTTP %d: %s", dataset, resp.StatusCode, body)
	}

	var page rowsResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode rows response: %w", err)
	}
	return &page, nil
}

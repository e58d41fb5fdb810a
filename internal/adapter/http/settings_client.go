package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/YelzhanWeb/carta/internal/domain"
	"github.com/YelzhanWeb/carta/internal/interfaces"
)

const maxSettingsBody = 1 << 20

// SettingsClient fetches the company settings from the REST backend
type SettingsClient struct {
	url    string
	client *http.Client
}

func NewSettingsClient(url string, client *http.Client) *SettingsClient {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &SettingsClient{url: url, client: client}
}

var _ interfaces.SettingsProvider = (*SettingsClient)(nil)

type companyPayload struct {
	domain.CompanySettings
	Translations domain.Translations `json:"translations"`
}

type companyPage struct {
	Results []companyPayload `json:"results"`
}

// GetSettings accepts the company as a single object, a list or a paginated
// page; the first company wins
func (c *SettingsClient) GetSettings(ctx context.Context) (domain.CompanySettings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.CompanySettings{}, errors.Wrap(err, "failed to build settings request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.CompanySettings{}, errors.Wrap(err, "failed to fetch company settings")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.CompanySettings{}, errors.Errorf("company settings returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSettingsBody))
	if err != nil {
		return domain.CompanySettings{}, errors.Wrap(err, "failed to read company settings")
	}

	payload, err := decodeCompany(body)
	if err != nil {
		return domain.CompanySettings{}, err
	}

	settings := payload.CompanySettings
	if settings.Name == "" {
		settings.Name = payload.Translations.Resolve(domain.DefaultLanguage)
	}
	if settings.BusinessHours == "" {
		settings.BusinessHours = domain.DefaultBusinessHours
	}
	if settings.WhatsAppPhone == "" {
		settings.WhatsAppPhone = domain.DefaultWhatsAppPhone
	}
	return settings, nil
}

func decodeCompany(body []byte) (companyPayload, error) {
	body = bytes.TrimSpace(body)

	var companies []companyPayload
	switch {
	case bytes.HasPrefix(body, []byte("[")):
		if err := json.Unmarshal(body, &companies); err != nil {
			return companyPayload{}, errors.Wrap(err, "failed to decode company list")
		}
	case bytes.Contains(body, []byte(`"results"`)):
		var page companyPage
		if err := json.Unmarshal(body, &page); err != nil {
			return companyPayload{}, errors.Wrap(err, "failed to decode company page")
		}
		companies = page.Results
	default:
		var company companyPayload
		if err := json.Unmarshal(body, &company); err != nil {
			return companyPayload{}, errors.Wrap(err, "failed to decode company")
		}
		return company, nil
	}

	if len(companies) == 0 {
		return companyPayload{}, errors.New("no company configured")
	}
	return companies[0], nil
}

package ariston

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DEFAULT_BASE_URL = "https://www.ariston-net.remotethermo.com/api/v2/"

	authTokenHeader = "ar.authToken"
	userAgent       = "RestSharp/106.11.7.0"
)

var ErrUnauthorized = errors.New("ariston: unauthorized")

type CloudOptions struct {
	BaseURL             string
	Username            string
	Password            string
	Gateway             string
	ExtraEnergyFeatures bool
	HTTPClient          *http.Client
}

// CloudDevice talks to a single plant of an Ariston NET account.
type CloudDevice struct {
	baseURL             string
	username            string
	password            string
	gateway             string
	extraEnergyFeatures bool
	http                *http.Client
	logger              *zap.Logger

	mu          sync.RWMutex
	token       string
	attributes  map[DeviceAttribute]string
	features    map[DeviceFeature]bool
	rawSettings map[string]any
}

type loginRequest struct {
	Username string  `json:"usr"`
	Password string  `json:"pwd"`
	Imp      bool    `json:"imp"`
	NotTrack bool    `json:"notTrack"`
	AppInfo  appInfo `json:"appInfo"`
}

type appInfo struct {
	Os     int    `json:"os"`
	AppVer string `json:"appVer"`
	AppId  string `json:"appId"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type plant struct {
	Gw    string `json:"gw"`
	Sn    string `json:"sn"`
	Name  string `json:"name"`
	Sys   int    `json:"sys"`
	FwVer string `json:"fwVer"`
}

func NewCloudDevice(opts CloudOptions, logger *zap.Logger) *CloudDevice {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DEFAULT_BASE_URL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &CloudDevice{
		baseURL:             baseURL,
		username:            opts.Username,
		password:            opts.Password,
		gateway:             opts.Gateway,
		extraEnergyFeatures: opts.ExtraEnergyFeatures,
		http:                httpClient,
		logger:              logger.With(zap.String("component", "ariston")),
		attributes:          map[DeviceAttribute]string{},
		features:            map[DeviceFeature]bool{},
		rawSettings:         map[string]any{},
	}
}

// Connect logs in and resolves the configured plant. If no gateway was
// configured, the first plant of the account is used.
func (d *CloudDevice) Connect(ctx context.Context) error {
	if err := d.login(ctx); err != nil {
		return err
	}

	var plants []plant
	if err := d.request(ctx, http.MethodGet, "remote/plants", nil, &plants); err != nil {
		return fmt.Errorf("listing plants: %w", err)
	}
	if len(plants) == 0 {
		return errors.New("ariston: no plants found for this account")
	}

	selected := plants[0]
	if d.gateway != "" {
		found := false
		for _, p := range plants {
			if strings.EqualFold(p.Gw, d.gateway) {
				selected = p
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("ariston: gateway %s not found", d.gateway)
		}
	}

	d.mu.Lock()
	d.gateway = selected.Gw
	d.attributes = map[DeviceAttribute]string{
		GW_ID:            selected.Gw,
		SERIAL_NUMBER:    selected.Sn,
		NAME:             selected.Name,
		SYSTEM:           fmt.Sprintf("%d", selected.Sys),
		FIRMWARE_VERSION: selected.FwVer,
	}
	d.mu.Unlock()

	d.logger.Info("connected to plant", zap.String("gateway", selected.Gw), zap.String("name", selected.Name))
	return nil
}

func (d *CloudDevice) GatewayId() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.gateway
}

func (d *CloudDevice) Attributes() map[DeviceAttribute]string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.attributes)
}

func (d *CloudDevice) Features() map[DeviceFeature]bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return maps.Clone(d.features)
}

func (d *CloudDevice) ExtraEnergyFeatures() bool {
	return d.extraEnergyFeatures
}

func (d *CloudDevice) ConsumptionsSettings() map[string]int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return integralSettings(d.rawSettings)
}

// UpdateState refreshes the plant feature flags.
func (d *CloudDevice) UpdateState(ctx context.Context) error {
	var raw map[string]any
	if err := d.request(ctx, http.MethodGet, d.plantPath("features"), nil, &raw); err != nil {
		return fmt.Errorf("getting features: %w", err)
	}
	features := map[DeviceFeature]bool{}
	for k, v := range raw {
		if b, ok := v.(bool); ok {
			features[DeviceFeature(k)] = b
		}
	}
	d.mu.Lock()
	d.features = features
	d.mu.Unlock()
	return nil
}

// UpdateEnergy refreshes the consumption settings.
func (d *CloudDevice) UpdateEnergy(ctx context.Context) error {
	var raw map[string]any
	if err := d.request(ctx, http.MethodGet, d.plantPath("consumptionsSettings"), nil, &raw); err != nil {
		return fmt.Errorf("getting consumptions settings: %w", err)
	}
	d.mu.Lock()
	d.rawSettings = raw
	d.mu.Unlock()
	return nil
}

// SetConsumptionsSettings posts the whole settings object with key replaced.
// The cached snapshot is only updated once the API accepted the change.
func (d *CloudDevice) SetConsumptionsSettings(ctx context.Context, key string, value int) error {
	d.mu.RLock()
	settings := maps.Clone(d.rawSettings)
	d.mu.RUnlock()
	if settings == nil {
		settings = map[string]any{}
	}
	settings[key] = value

	if err := d.request(ctx, http.MethodPost, d.plantPath("consumptionsSettings"), settings, nil); err != nil {
		return fmt.Errorf("setting consumptions settings %s=%d: %w", key, value, err)
	}

	d.mu.Lock()
	if d.rawSettings == nil {
		d.rawSettings = map[string]any{}
	}
	d.rawSettings[key] = float64(value)
	d.mu.Unlock()
	return nil
}

func (d *CloudDevice) plantPath(resource string) string {
	return fmt.Sprintf("remote/plants/%s/%s", d.GatewayId(), resource)
}

func (d *CloudDevice) login(ctx context.Context) error {
	body := loginRequest{
		Username: d.username,
		Password: d.password,
		NotTrack: true,
		AppInfo: appInfo{
			Os:     2,
			AppVer: "5.6.7772.40151",
			AppId:  "com.remotethermo.aristonnet",
		},
	}
	var resp loginResponse
	if err := d.do(ctx, http.MethodPost, "accounts/login", body, &resp); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return errors.New("login: empty token")
	}
	d.mu.Lock()
	d.token = resp.Token
	d.mu.Unlock()
	return nil
}

// request performs an authenticated call, logging in again once on 401.
func (d *CloudDevice) request(ctx context.Context, method, path string, body any, out any) error {
	err := d.do(ctx, method, path, body, out)
	if !errors.Is(err, ErrUnauthorized) {
		return err
	}
	d.logger.Debug("token expired, logging in again")
	if err := d.login(ctx); err != nil {
		return err
	}
	return d.do(ctx, method, path, body, out)
}

func (d *CloudDevice) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	d.mu.RLock()
	if d.token != "" {
		req.Header.Set(authTokenHeader, d.token)
	}
	d.mu.RUnlock()

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func integralSettings(raw map[string]any) map[string]int {
	settings := make(map[string]int, len(raw))
	for k, v := range raw {
		switch n := v.(type) {
		case float64:
			if n == math.Trunc(n) {
				settings[k] = int(n)
			}
		case int:
			settings[k] = n
		}
	}
	return settings
}

// ensure interface compliance
var _ Device = (*CloudDevice)(nil)

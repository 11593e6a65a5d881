package metro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"tarediiran-industries.com/departure-board/internal/common"
	"tarediiran-industries.com/departure-board/internal/transit"
)

const (
	DefaultBaseURL     = "http://api.wmata.com"
	predictionEndpoint = "metro-predictions"
)

var (
	ErrMalformedPrediction = errors.New("malformed metro prediction")
	ErrMissingAPIKey       = errors.New("metro API key is not set")
)

var (
	// Non-revenue trains.
	ExcludedDestinations = []string{"No Passenger", "Train"}
	// Arriving, boarding and delayed trains have no minute count to show.
	ExcludedMinutes = []string{"ARR", "BRD", "DLY"}
)

type predictionResponse struct {
	Trains []transit.MetroPrediction `json:"Trains"`
}

type Client struct {
	BaseURL string
	APIKey  string
	Client  *common.FeedClient
}

func NewClient(baseURL string, apiKey string, client *common.FeedClient) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (client *Client) predictionURL(stationCode string) string {
	query := url.Values{}
	query.Set("api_key", client.APIKey)
	return fmt.Sprintf("%s/StationPrediction.svc/json/GetPrediction/%s?%s",
		strings.TrimRight(client.BaseURL, "/"), url.PathEscape(stationCode), query.Encode())
}

func (client *Client) Predictions(ctx context.Context, stationCode string) ([]transit.MetroPrediction, error) {
	if client.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	body, err := client.Client.Get(ctx, predictionEndpoint, client.predictionURL(stationCode))
	if err != nil {
		return nil, err
	}

	var response predictionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode metro predictions: %w", err)
	}
	if response.Trains == nil {
		return nil, fmt.Errorf("decode metro predictions: %w: no Trains array", ErrMalformedPrediction)
	}

	return response.Trains, nil
}

func (client *Client) Departures(ctx context.Context, stationCode string) ([]transit.Departure, error) {
	predictions, err := client.Predictions(ctx, stationCode)
	if err != nil {
		return nil, err
	}
	return Group(predictions)
}

func Displayable(prediction transit.MetroPrediction) bool {
	return !slices.Contains(ExcludedDestinations, prediction.DestinationName) &&
		!slices.Contains(ExcludedMinutes, prediction.Min)
}

// Group keeps displayable predictions and groups them by destination in feed
// order, soonest first. A minute value that is neither numeric nor a known
// sentinel fails the whole grouping.
func Group(predictions []transit.MetroPrediction) ([]transit.Departure, error) {
	grouper := transit.NewGrouper()

	for _, prediction := range predictions {
		if !Displayable(prediction) {
			continue
		}

		minutes, err := strconv.Atoi(strings.TrimSpace(prediction.Min))
		if err != nil {
			return nil, fmt.Errorf("%w: %s to %s has Min %q",
				ErrMalformedPrediction, prediction.Line, prediction.DestinationName, prediction.Min)
		}
		grouper.Add(prediction.DestinationName, minutes, prediction.Line)
	}

	return grouper.Departures(transit.MaxDestinations, transit.MaxTimes), nil
}

package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNominatimProvider_Geocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Expected path '/search', got '%s'", r.URL.Path)
		}

		if r.Header.Get("User-Agent") != "geonavi/1.0" {
			t.Errorf("Expected User-Agent 'geonavi/1.0', got '%s'", r.Header.Get("User-Agent"))
		}

		if r.URL.Query().Get("q") != "AUB, Beirut" {
			t.Errorf("Expected query 'AUB, Beirut', got '%s'", r.URL.Query().Get("q"))
		}

		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"display_name": "American University of Beirut, Beirut, Lebanon",
				"lat":          "33.9008",
				"lon":          "35.4823",
				"type":         "university",
			},
		})
	}))
	defer server.Close()

	provider := NewNominatimProvider(server.URL, "")

	payload, err := provider.Geocode(context.Background(), "AUB, Beirut")
	if err != nil {
		t.Fatalf("Geocode failed: %v", err)
	}

	if payload["success"] != true {
		t.Error("Expected success=true")
	}

	if payload["lat"] != 33.9008 || payload["lon"] != 35.4823 {
		t.Errorf("Coordinates not parsed: lat=%v lon=%v", payload["lat"], payload["lon"])
	}

	if payload["type"] != "university" {
		t.Errorf("Expected type 'university', got %v", payload["type"])
	}
}

func TestNominatimProvider_Geocode_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{})
	}))
	defer server.Close()

	provider := NewNominatimProvider(server.URL, "")

	payload, err := provider.Geocode(context.Background(), "nowhere at all")
	if err != nil {
		t.Fatalf("Geocode should not error on empty results: %v", err)
	}

	if payload["success"] != false {
		t.Error("Expected success=false for unknown address")
	}

	if payload["error"] != "Address not found" {
		t.Errorf("Expected 'Address not found', got %v", payload["error"])
	}
}

func TestNominatimProvider_ReverseGeocode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reverse" {
			t.Errorf("Expected path '/reverse', got '%s'", r.URL.Path)
		}

		if r.URL.Query().Get("lat") != "33.8938" {
			t.Errorf("Expected lat '33.8938', got '%s'", r.URL.Query().Get("lat"))
		}

		json.NewEncoder(w).Encode(map[string]interface{}{
			"display_name": "Hamra Street, Beirut, Lebanon",
			"type":         "road",
		})
	}))
	defer server.Close()

	provider := NewNominatimProvider(server.URL, "")

	payload, err := provider.ReverseGeocode(context.Background(), 33.8938, 35.5018)
	if err != nil {
		t.Fatalf("ReverseGeocode failed: %v", err)
	}

	if payload["success"] != true {
		t.Error("Expected success=true")
	}

	if payload["address"] != "Hamra Street, Beirut, Lebanon" {
		t.Errorf("Unexpected address: %v", payload["address"])
	}

	if payload["lat"] != 33.8938 || payload["lon"] != 35.5018 {
		t.Error("Input coordinates should be echoed back")
	}
}

func TestNominatimProvider_ReverseGeocode_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": "Unable to geocode",
		})
	}))
	defer server.Close()

	provider := NewNominatimProvider(server.URL, "")

	payload, err := provider.ReverseGeocode(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("ReverseGeocode should not error on API-level failure: %v", err)
	}

	if payload["success"] != false {
		t.Error("Expected success=false")
	}

	if payload["error"] != "Unable to geocode" {
		t.Errorf("Expected API error message, got %v", payload["error"])
	}
}

func TestNominatimProvider_SearchPOI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q != "cafe near 33.9008,35.4823" {
			t.Errorf("Unexpected search query: '%s'", q)
		}

		if r.URL.Query().Get("limit") != "10" {
			t.Errorf("Expected limit 10, got '%s'", r.URL.Query().Get("limit"))
		}

		json.NewEncoder(w).Encode([]map[string]interface{}{
			{
				"display_name": "Cafe Younes, Hamra, Beirut",
				"lat":          "33.8972",
				"lon":          "35.4806",
				"type":         "cafe",
				"category":     "amenity",
			},
			{
				"display_name": "Urbanista, Bliss Street, Beirut",
				"lat":          "33.9001",
				"lon":          "35.4815",
				"type":         "cafe",
				"category":     "amenity",
			},
		})
	}))
	defer server.Close()

	provider := NewNominatimProvider(server.URL, "")

	payload, err := provider.SearchPOI(context.Background(), "cafe", 33.9008, 35.4823)
	if err != nil {
		t.Fatalf("SearchPOI failed: %v", err)
	}

	if payload["success"] != true {
		t.Error("Expected success=true")
	}

	if payload["count"] != 2 {
		t.Errorf("Expected count 2, got %v", payload["count"])
	}

	results, ok := payload["results"].([]map[string]interface{})
	if !ok || len(results) != 2 {
		t.Fatalf("Expected 2 results, got %v", payload["results"])
	}

	if results[0]["name"] != "Cafe Younes, Hamra, Beirut" {
		t.Errorf("Unexpected first result: %v", results[0]["name"])
	}
}

func TestNominatimProvider_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := NewNominatimProvider(server.URL, "")

	_, err := provider.Geocode(context.Background(), "Beirut")
	if err == nil {
		t.Error("Expected error on HTTP 503")
	}
}

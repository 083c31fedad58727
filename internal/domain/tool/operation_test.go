package tool

import (
	"testing"

	"github.com/Nyukimin/geonavi/internal/domain/routing"
)

func TestDefaultCatalog_OperationCount(t *testing.T) {
	catalog := DefaultCatalog()

	ops := catalog.Operations()
	if len(ops) != 9 {
		t.Fatalf("Expected 9 operations, got %d", len(ops))
	}

	seen := make(map[string]bool)
	for _, op := range ops {
		if seen[op.Name] {
			t.Errorf("Duplicate operation name: %s", op.Name)
		}
		seen[op.Name] = true
	}
}

func TestDefaultCatalog_ServerAssignment(t *testing.T) {
	tests := []struct {
		name   string
		server routing.Server
	}{
		{"geocode", routing.ServerGeo},
		{"reverse_geocode", routing.ServerGeo},
		{"search_poi", routing.ServerGeo},
		{"get_route", routing.ServerRouting},
		{"get_distance", routing.ServerRouting},
		{"fastest_route", routing.ServerRouting},
		{"get_weather", routing.ServerWeather},
		{"get_temperature", routing.ServerWeather},
		{"weather_overlay", routing.ServerWeather},
	}

	catalog := DefaultCatalog()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op, ok := catalog.Lookup(tt.name)
			if !ok {
				t.Fatalf("Operation %s not found in catalog", tt.name)
			}
			if op.Server != tt.server {
				t.Errorf("Expected server %s, got %s", tt.server, op.Server)
			}
		})
	}
}

func TestDefaultCatalog_RequiredArgs(t *testing.T) {
	catalog := DefaultCatalog()

	op, ok := catalog.Lookup("get_distance")
	if !ok {
		t.Fatal("get_distance not found in catalog")
	}

	wantArgs := []string{"start_lat", "start_lon", "end_lat", "end_lon"}
	if len(op.Args) != len(wantArgs) {
		t.Fatalf("Expected %d args, got %d", len(wantArgs), len(op.Args))
	}

	for i, arg := range op.Args {
		if arg.Name != wantArgs[i] {
			t.Errorf("Arg %d: expected %s, got %s", i, wantArgs[i], arg.Name)
		}
		if arg.Type != ArgNumber {
			t.Errorf("Arg %s: expected number type, got %s", arg.Name, arg.Type)
		}
	}
}

func TestCatalog_Lookup_Unknown(t *testing.T) {
	catalog := DefaultCatalog()

	if _, ok := catalog.Lookup("teleport"); ok {
		t.Error("Lookup should fail for unknown operation")
	}
}

func TestOperation_Schema(t *testing.T) {
	catalog := DefaultCatalog()

	op, _ := catalog.Lookup("weather_overlay")
	schema := op.Schema()

	if schema["type"] != "object" {
		t.Errorf("Schema type should be object, got %v", schema["type"])
	}

	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		t.Fatal("Schema properties should be a map")
	}

	tileX, ok := properties["tile_x"].(map[string]interface{})
	if !ok {
		t.Fatal("tile_x property missing")
	}
	if tileX["type"] != "integer" {
		t.Errorf("tile_x type should be integer, got %v", tileX["type"])
	}

	required, ok := schema["required"].([]string)
	if !ok {
		t.Fatal("Schema required should be a string slice")
	}
	if len(required) != 3 {
		t.Errorf("Expected 3 required fields, got %d", len(required))
	}
}

package order

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/hupe1980/shipmesh/core"
)

func TestNewStoreFromFile(t *testing.T) {
	s, err := NewStoreFromFile(filepath.Join("testdata", "orders.json"))
	if err != nil {
		t.Fatalf("NewStoreFromFile: %v", err)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 orders, got %d", s.Len())
	}

	o, err := s.Get("ORD-1001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if o.FromAddress.PostalCode != "10001" || o.Parcel.Weight != 2 {
		t.Errorf("unexpected order contents: %+v", o)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := NewStore(nil)
	_, err := s.Get("ORD-404")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestNewStore_DuplicateNumbersLastWins(t *testing.T) {
	s := NewStore([]core.Order{
		{OrderNumber: "ORD-1", ShipmentRequest: core.ShipmentRequest{ParcelType: "PKG"}},
		{OrderNumber: "ORD-1", ShipmentRequest: core.ShipmentRequest{ParcelType: "ENV"}},
	})
	o, err := s.Get("ORD-1")
	if err != nil {
		t.Fatal(err)
	}
	if o.ParcelType != "ENV" {
		t.Errorf("expected later duplicate to win, got %q", o.ParcelType)
	}
}

func TestNewStoreFromFile_Missing(t *testing.T) {
	if _, err := NewStoreFromFile(filepath.Join("testdata", "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

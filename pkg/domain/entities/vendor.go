package entities

import (
	"fmt"
	"strings"
)

// VendorID identifies a vendor
type VendorID string

// Vendor represents a shop an item can be bought from
type Vendor struct {
	ID   VendorID
	Name string
}

// NewVendor creates a validated Vendor
func NewVendor(id VendorID, name string) (*Vendor, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("vendor id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("vendor name cannot be empty")
	}
	return &Vendor{ID: id, Name: name}, nil
}

package entities

import (
	"fmt"
	"strings"
)

// TagTypeID identifies a tag type (a filter facet)
type TagTypeID string

// TagID identifies a tag within a tag type
type TagID string

// TagType represents a named tag category with a display color
type TagType struct {
	ID    TagTypeID
	Name  string
	Color string
}

// NewTagType creates a validated TagType
func NewTagType(id TagTypeID, name, color string) (*TagType, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("tag type id cannot be empty")
	}
	if IsReservedFacet(id) {
		return nil, fmt.Errorf("tag type id %q is reserved", id)
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("tag type name cannot be empty")
	}

	return &TagType{ID: id, Name: name, Color: color}, nil
}

// Tag represents a single tag owned by a tag type
type Tag struct {
	ID     TagID
	Name   string
	TypeID TagTypeID
}

// NewTag creates a validated Tag
func NewTag(id TagID, name string, typeID TagTypeID) (*Tag, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("tag id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("tag name cannot be empty")
	}
	if string(typeID) == "" {
		return nil, fmt.Errorf("tag %s has no tag type", id)
	}

	return &Tag{ID: id, Name: name, TypeID: typeID}, nil
}

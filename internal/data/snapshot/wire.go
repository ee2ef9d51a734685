package snapshot

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type wireSnapshot struct {
	Document  string                `json:"document" yaml:"document"`
	Selection []string              `json:"selection" yaml:"selection"`
	Pages     []wireNode            `json:"pages" yaml:"pages"`
	Libraries []wireLibrary         `json:"libraries" yaml:"libraries"`
	Styles    map[string]wireEntity `json:"styles" yaml:"styles"`
	Variables map[string]wireEntity `json:"variables" yaml:"variables"`
}

type wireLibrary struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type wireEntity struct {
	Name    string `json:"name" yaml:"name"`
	Library string `json:"library" yaml:"library"`
	Key     string `json:"key" yaml:"key"`
}

type wireNode struct {
	ID              string            `json:"id" yaml:"id"`
	Name            string            `json:"name" yaml:"name"`
	Type            string            `json:"type" yaml:"type"`
	Locked          bool              `json:"locked" yaml:"locked"`
	Visible         *bool             `json:"visible" yaml:"visible"`
	Children        []wireNode        `json:"children" yaml:"children"`
	Fills           *[]wirePaint      `json:"fills" yaml:"fills"`
	Strokes         *[]wirePaint      `json:"strokes" yaml:"strokes"`
	Text            *wireText         `json:"text" yaml:"text"`
	CornerRadius    *wireRadius       `json:"cornerRadius" yaml:"cornerRadius"`
	TopLeft         *float64          `json:"topLeftRadius" yaml:"topLeftRadius"`
	TopRight        *float64          `json:"topRightRadius" yaml:"topRightRadius"`
	BottomLeft      *float64          `json:"bottomLeftRadius" yaml:"bottomLeftRadius"`
	BottomRight     *float64          `json:"bottomRightRadius" yaml:"bottomRightRadius"`
	Layout          *wireLayout       `json:"layout" yaml:"layout"`
	Styles          map[string]string `json:"styles" yaml:"styles"`
	BoundVariables  map[string]string `json:"boundVariables" yaml:"boundVariables"`
	MainComponentID string            `json:"mainComponentId" yaml:"mainComponentId"`
}

type wirePaint struct {
	Type    string `json:"type" yaml:"type"`
	Color   string `json:"color" yaml:"color"`
	Visible *bool  `json:"visible" yaml:"visible"`
}

type wireText struct {
	FontFamily string  `json:"fontFamily" yaml:"fontFamily"`
	FontStyle  string  `json:"fontStyle" yaml:"fontStyle"`
	FontSize   float64 `json:"fontSize" yaml:"fontSize"`
}

type wireLayout struct {
	Mode             string  `json:"mode" yaml:"mode"`
	ItemSpacing      float64 `json:"itemSpacing" yaml:"itemSpacing"`
	PaddingLeft      float64 `json:"paddingLeft" yaml:"paddingLeft"`
	PaddingRight     float64 `json:"paddingRight" yaml:"paddingRight"`
	PaddingTop       float64 `json:"paddingTop" yaml:"paddingTop"`
	PaddingBottom    float64 `json:"paddingBottom" yaml:"paddingBottom"`
	PrimaryAxisAlign string  `json:"primaryAxisAlignItems" yaml:"primaryAxisAlignItems"`
	Wrap             bool    `json:"wrap" yaml:"wrap"`
}

// wireRadius accepts a number or the string "mixed".
type wireRadius struct {
	mixed bool
	value float64
}

const mixedValue = "mixed"

func (r *wireRadius) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return r.fromString(s)
	}
	return json.Unmarshal(data, &r.value)
}

func (r *wireRadius) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("cornerRadius must be a number or %q", mixedValue)
	}
	if value.Tag == "!!str" {
		return r.fromString(value.Value)
	}
	return value.Decode(&r.value)
}

func (r *wireRadius) fromString(s string) error {
	if strings.EqualFold(strings.TrimSpace(s), mixedValue) {
		r.mixed = true
		return nil
	}
	return fmt.Errorf("cornerRadius must be a number or %q, got %q", mixedValue, s)
}

package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/mathquest/internal/codec"
)

// BundleFormat identifies an export file.
const BundleFormat = "mathquest-export"

// ErrInvalidBundle is returned when an import file fails validation.
var ErrInvalidBundle = errors.New("invalid export bundle")

// Bundle is a full export: every stored key with its value as JSON.
type Bundle struct {
	Format     string                     `json:"format"`
	Version    string                     `json:"version"`
	ExportedAt int64                      `json:"exportedAt"`
	Data       map[string]json.RawMessage `json:"data"`
}

const bundleSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["format", "data"],
  "properties": {
    "format": {"const": "mathquest-export"},
    "version": {"type": "string"},
    "exportedAt": {"type": "integer"},
    "data": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "math_points": {"type": "integer", "minimum": 0},
        "math_rewards": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "name", "pointsNeeded"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "name": {"type": "string", "minLength": 1},
              "pointsNeeded": {"type": "integer", "minimum": 0},
              "redeemed": {"type": "boolean"}
            }
          }
        },
        "math_global_groups": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "code"],
            "properties": {
              "name": {"type": "string", "minLength": 1},
              "code": {"type": "string", "minLength": 1}
            }
          }
        },
        "math_profile": {
          "type": "object",
          "properties": {
            "correctAnswers": {"type": "integer", "minimum": 0},
            "totalAttempts": {"type": "integer", "minimum": 0},
            "unlockedBadges": {"type": "array", "items": {"type": "string"}},
            "problemStats": {"type": "object", "additionalProperties": {"type": "integer"}},
            "topicAttempts": {"type": "object", "additionalProperties": {"type": "integer"}}
          }
        },
        "math_notebook": {
          "type": "array",
          "items": {"type": "object", "required": ["problem"]}
        },
        "math_discussions": {
          "type": "array",
          "items": {"type": "object", "required": ["id", "problem"]}
        },
        "math_public_registry": {
          "type": "array",
          "items": {"type": "object", "required": ["name"]}
        }
      }
    }
  }
}`

var (
	bundleSchemaOnce sync.Once
	bundleSchema     *jsonschema.Schema
	bundleSchemaErr  error
)

func compiledBundleSchema() (*jsonschema.Schema, error) {
	bundleSchemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(bundleSchemaJSON)))
		if err != nil {
			bundleSchemaErr = fmt.Errorf("parse bundle schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://mathquest-export.json"
		if err := c.AddResource(url, doc); err != nil {
			bundleSchemaErr = fmt.Errorf("add bundle schema: %w", err)
			return
		}
		bundleSchema, bundleSchemaErr = c.Compile(url)
	})
	return bundleSchema, bundleSchemaErr
}

// ExportData renders the working set as an indented JSON bundle.
func (c *Controller) ExportData() ([]byte, error) {
	snap := c.Snapshot()
	b := Bundle{
		Format:     BundleFormat,
		Version:    codec.ProfileVersion,
		ExportedAt: c.now().UnixMilli(),
		Data:       make(map[string]json.RawMessage, len(codec.Keys)),
	}
	for _, key := range codec.Keys {
		v, err := encodeKey(key, snap)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		b.Data[key] = json.RawMessage(v)
	}
	return json.MarshalIndent(b, "", "  ")
}

// ImportData replaces the whole working set with the bundle's contents.
// The bundle is checked against the export schema and every entity must
// decode cleanly before anything is written. Keys missing from the bundle
// reset to their defaults.
func (c *Controller) ImportData(ctx context.Context, raw []byte) error {
	schema, err := compiledBundleSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
	}

	_, err = c.mutate(ctx, func(d *Snapshot, now time.Time) error {
		next := defaultSnapshot(now)
		for _, key := range codec.Keys {
			v, ok := b.Data[key]
			if err := decodeInto(key, string(v), ok, &next, now); err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidBundle, err)
			}
		}
		*d = next
		return nil
	})
	return err
}

// decodeInto strictly decodes one bundle entry into d.
func decodeInto(key, raw string, ok bool, d *Snapshot, now time.Time) error {
	var err error
	switch key {
	case codec.KeyPoints:
		d.Points, err = codec.DecodePoints(raw, ok)
	case codec.KeyRewards:
		d.Rewards, err = codec.DecodeRewards(raw, ok)
	case codec.KeyGroups:
		d.Groups, err = codec.DecodeGroups(raw, ok)
	case codec.KeyProfile:
		d.Profile, _, err = codec.DecodeProfile(raw, ok, now)
	case codec.KeyNotebook:
		d.Notebook, err = codec.DecodeNotebook(raw, ok)
	case codec.KeyDiscussion:
		d.Discussions, err = codec.DecodeDiscussions(raw, ok)
	case codec.KeyRegistry:
		d.Registry, err = codec.DecodeRegistry(raw, ok)
	}
	return err
}

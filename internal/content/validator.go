// Package content validates submitted note content before it is persisted.
package content

import (
	"encoding/json"
	"errors"
	"strings"

	"sixia/internal/apperr"
	"sixia/internal/database/models"
)

// Validate checks that raw, an arbitrary value decoded from JSON, is a
// non-empty list of text or image blocks and returns the typed sequence in
// submitted order. Unknown keys on a block are dropped.
func Validate(raw any) (models.Blocks, error) {
	list, ok := raw.([]any)
	if !ok {
		return nil, apperr.InvalidContent("content must be a list of blocks")
	}
	if len(list) == 0 {
		return nil, apperr.InvalidContent("content must not be empty")
	}

	blocks := make(models.Blocks, 0, len(list))
	for i, item := range list {
		block, err := validateBlock(item)
		if err != nil {
			return nil, apperr.InvalidContent("block %d: %s", i, err.Error())
		}
		blocks = append(blocks, block)
	}
	return blocks, nil
}

// Decode parses data as JSON and validates the result.
func Decode(data []byte) (models.Blocks, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, apperr.InvalidContent("content is not valid JSON")
	}
	return Validate(raw)
}

func validateBlock(item any) (models.ContentBlock, error) {
	obj, ok := item.(map[string]any)
	if !ok {
		return models.ContentBlock{}, errors.New("must be an object")
	}
	typ, ok := obj["type"].(string)
	if !ok {
		return models.ContentBlock{}, errors.New("missing type")
	}

	switch models.BlockType(typ) {
	case models.BlockText:
		text, ok := obj["content"].(string)
		if !ok {
			return models.ContentBlock{}, errors.New("text block needs string content")
		}
		return models.TextBlock(text), nil

	case models.BlockImage:
		src, ok := obj["src"].(string)
		if !ok {
			return models.ContentBlock{}, errors.New("image block needs string src")
		}
		block := models.ImageBlock(src)
		if block.URL, ok = optionalString(obj, "url"); !ok {
			return models.ContentBlock{}, errors.New("image url must be a string")
		}
		if block.FileKey, ok = optionalString(obj, "fileKey"); !ok {
			return models.ContentBlock{}, errors.New("image fileKey must be a string")
		}
		return block, nil

	default:
		return models.ContentBlock{}, errors.New("unknown type " + typ)
	}
}

func optionalString(obj map[string]any, key string) (string, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

// HasContent reports whether any block carries something worth saving: an
// image, or text that is not blank.
func HasContent(blocks models.Blocks) bool {
	for _, b := range blocks {
		if b.Type == models.BlockImage || strings.TrimSpace(b.Content) != "" {
			return true
		}
	}
	return false
}

// MatchesText reports whether any text block contains query, ignoring case.
// A blank query matches everything.
func MatchesText(blocks models.Blocks, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, b := range blocks {
		if b.Type == models.BlockText && strings.Contains(strings.ToLower(b.Content), q) {
			return true
		}
	}
	return false
}

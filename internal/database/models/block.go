package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type BlockType string

const (
	BlockText  BlockType = "text"
	BlockImage BlockType = "image"
)

// ContentBlock is one unit of note content: a text span or an image
// reference. Only the fields of its own Type are meaningful; Src, URL and
// FileKey are opaque strings that are stored and returned untouched.
type ContentBlock struct {
	Type    BlockType
	Content string
	Src     string
	URL     string
	FileKey string
}

func TextBlock(content string) ContentBlock {
	return ContentBlock{Type: BlockText, Content: content}
}

func ImageBlock(src string) ContentBlock {
	return ContentBlock{Type: BlockImage, Src: src}
}

type textJSON struct {
	Type    BlockType `json:"type"`
	Content string    `json:"content"`
}

type imageJSON struct {
	Type    BlockType `json:"type"`
	Src     string    `json:"src"`
	URL     string    `json:"url,omitempty"`
	FileKey string    `json:"fileKey,omitempty"`
}

func (b ContentBlock) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case BlockText:
		return json.Marshal(textJSON{Type: b.Type, Content: b.Content})
	case BlockImage:
		return json.Marshal(imageJSON{Type: b.Type, Src: b.Src, URL: b.URL, FileKey: b.FileKey})
	default:
		return nil, fmt.Errorf("unknown block type %q", b.Type)
	}
}

// UnmarshalJSON decodes a stored block. It does not validate; untrusted
// input goes through the content package instead.
func (b *ContentBlock) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    BlockType `json:"type"`
		Content string    `json:"content"`
		Src     string    `json:"src"`
		URL     string    `json:"url"`
		FileKey string    `json:"fileKey"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = ContentBlock(raw)
	return nil
}

// Blocks is the ordered content of a note. It is stored as a JSONB array.
type Blocks []ContentBlock

func (bs Blocks) Value() (driver.Value, error) {
	if bs == nil {
		bs = Blocks{}
	}
	data, err := json.Marshal([]ContentBlock(bs))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (bs *Blocks) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	case nil:
		*bs = nil
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Blocks", src)
	}
	var out []ContentBlock
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("error decoding note content: %w", err)
	}
	*bs = out
	return nil
}

// Clone returns a copy that shares no backing array with bs.
func (bs Blocks) Clone() Blocks {
	if bs == nil {
		return nil
	}
	out := make(Blocks, len(bs))
	copy(out, bs)
	return out
}

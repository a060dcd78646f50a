package types

import (
  "time"
)

// GeneratedRationale is the personalized "because" explanation for one
// selected item, with any citation substrings extracted from the final text.
type GeneratedRationale struct {
  ItemID        string            `json:"item_id"`
  Text          string            `json:"text"`
  Substitutions map[string]string `json:"substitutions,omitempty"`
  Citations     []string          `json:"citations,omitempty"`
  GeneratedAt   time.Time         `json:"generated_at"`
}

package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"Agora/internal/core/engagement"
)

// recordOutput is one entity's line of output
type recordOutput struct {
	Entity   string `json:"entity"`
	Reaction string `json:"reaction,omitempty"`
	Likes    int    `json:"likes"`
	Dislikes int    `json:"dislikes"`
	Error    string `json:"error,omitempty"`
}

func newRecordOutput(ref engagement.EntityRef, rec engagement.Record, err error) recordOutput {
	out := recordOutput{Entity: ref.String()}
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.Reaction = rec.Reaction.String()
	out.Likes = rec.Likes
	out.Dislikes = rec.Dislikes
	return out
}

func writeRecords(w io.Writer, format string, records []recordOutput) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	for _, r := range records {
		if r.Error != "" {
			fmt.Fprintf(w, "%-16s error: %s\n", r.Entity, r.Error)
			continue
		}
		fmt.Fprintf(w, "%-16s %-9s likes=%d dislikes=%d\n", r.Entity, r.Reaction, r.Likes, r.Dislikes)
	}
	return nil
}

package main

import (
	"encoding/json"
	"io"
	"os"
)

func printJSON(v any) {
	writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips"
)

// validFormats lists all valid output formats.
var validFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

func checkFormat(f string) error {
	if !validFormats[f] {
		return fmt.Errorf("unknown format: %s (valid: jsonl, pretty)", f)
	}
	return nil
}

// OutputResult writes a classified item in the specified format.
func OutputResult(format string, res shrinetips.Result, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(res, out)
	case "pretty":
		return OutputPretty(res, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputTip writes a parsed item in the specified format.
func OutputTip(format string, t *shrinetips.Tip, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(t, out)
	case "pretty":
		return OutputTipPretty(t, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes v as one line of JSON.
func OutputJSON(v any, out io.Writer) error {
	data, err := sonic.ConfigStd.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes a classified item in human-readable form:
//
//	Doom Loop, Coral Ring (rare)
//	  [q2] Life                   Gloom Shrine
//	       +31 to maximum Life
//	  Unknown
//	       Nonsense line
func OutputPretty(res shrinetips.Result, out io.Writer) error {
	var sb strings.Builder
	writeHeader(&sb, res.Tip)

	if len(res.Groups) == 0 {
		sb.WriteString("  (no modifiers)\n")
	}
	for _, g := range res.Groups {
		if g.Unknown {
			sb.WriteString("  " + shrinetips.UnknownName + "\n")
		} else {
			level, text, ok := shrinetips.SplitQuality(g.Template)
			tint := "    "
			if ok {
				tint = fmt.Sprintf("[q%d]", level)
			}
			fmt.Fprintf(&sb, "  %s %-24s %s\n", tint, text, g.Name)
		}
		for _, line := range g.Lines {
			sb.WriteString("       " + line + "\n")
		}
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

// OutputTipPretty writes a parsed item in human-readable form.
func OutputTipPretty(t *shrinetips.Tip, out io.Writer) error {
	var sb strings.Builder
	writeHeader(&sb, t)

	for _, kv := range t.BaseStats {
		writeKeyValue(&sb, kv)
	}
	if len(t.Requirements) > 0 {
		sb.WriteString("  Requirements:\n")
		for _, kv := range t.Requirements {
			sb.WriteString("  ")
			writeKeyValue(&sb, kv)
		}
	}
	if t.Sockets != "" {
		fmt.Fprintf(&sb, "  Sockets: %s\n", t.Sockets)
	}
	if t.ItemLevel > 0 {
		fmt.Fprintf(&sb, "  Item Level: %d\n", t.ItemLevel)
	}
	for i, section := range t.Sections {
		label := fmt.Sprintf("section %d", i)
		if i == 0 && t.HasImplicit() {
			label = "implicit"
		}
		fmt.Fprintf(&sb, "  -- %s\n", label)
		for _, line := range section {
			sb.WriteString("     " + line + "\n")
		}
	}

	_, err := io.WriteString(out, sb.String())
	return err
}

func writeHeader(sb *strings.Builder, t *shrinetips.Tip) {
	if t == nil {
		return
	}
	fmt.Fprintf(sb, "%s, %s (%s)\n", t.Name, t.Base, t.Rarity)
}

func writeKeyValue(sb *strings.Builder, kv shrinetips.KeyValue) {
	if kv.Value == "" {
		fmt.Fprintf(sb, "  %s\n", kv.Key)
		return
	}
	fmt.Fprintf(sb, "  %s: %s\n", kv.Key, kv.Value)
}

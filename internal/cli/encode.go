package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/vk/capreg/internal/registry"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func validFormat(f string) bool {
	return f == formatText || f == formatJSON || f == formatYAML
}

func encodeInspection(w io.Writer, format string, doc inspection) error {
	switch format {
	case formatJSON:
		return encodeJSON(w, doc)
	case formatYAML:
		return encodeYAML(w, doc)
	}

	t := list.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(list.StyleConnectedRounded)
	t.AppendItem(fmt.Sprintf("registry (%s)", doc.State))
	t.Indent()
	for _, m := range doc.Modules {
		t.AppendItem(m.Name)
		t.Indent()
		for _, s := range m.Sources {
			t.AppendItem(fmt.Sprintf("source: %s", s.Name))
			t.Indent()
			appendSourceDetails(t, s)
			t.UnIndent()
		}
		if m.Controller != "" {
			t.AppendItem("controller: " + m.Controller)
		}
		if m.Manager != "" {
			t.AppendItem("manager: " + m.Manager)
		}
		for _, u := range m.Units {
			t.AppendItem("unit: " + u)
		}
		t.UnIndent()
	}
	t.UnIndent()
	t.Render()

	if len(doc.Skipped) > 0 {
		fmt.Fprintf(w, "\nskipped: %s\n", strings.Join(doc.Skipped, ", "))
	}
	if len(doc.Diagnostics) == 0 {
		return nil
	}

	fmt.Fprintln(w)
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"Severity", "Module", "Capability", "Type", "Message"})
	for _, d := range doc.Diagnostics {
		tbl.AppendRow(table.Row{d.Severity, d.Module, d.Capability, d.Type, d.Message})
	}
	tbl.SetStyle(table.StyleLight)
	tbl.Render()
	return nil
}

func encodeSource(w io.Writer, format string, s registry.SourceSummary) error {
	switch format {
	case formatJSON:
		return encodeJSON(w, s)
	case formatYAML:
		return encodeYAML(w, s)
	}

	t := list.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(list.StyleConnectedRounded)
	t.AppendItem(s.Name)
	t.Indent()
	t.AppendItem("module: " + s.Module)
	appendSourceDetails(t, s)
	t.UnIndent()
	t.Render()
	return nil
}

func appendSourceDetails(t list.Writer, s registry.SourceSummary) {
	t.AppendItem("path: " + s.Path)
	t.AppendItem(fmt.Sprintf("cell size: %dx%d", s.CellSize.W, s.CellSize.H))
	t.AppendItem("tracks: " + strings.Join(s.Tracks, ", "))
	t.AppendItem("texture: " + s.Texture)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output as json failed: %w", err)
	}
	return nil
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output as yaml failed: %w", err)
	}
	return enc.Close()
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/treedisplay/debug"
	"github.com/signadot/treedisplay/tree"
)

func render(cfg *RenderConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Render.Parse(cc, args)
	if err != nil {
		return err
	}
	out, err := renderInputs(cfg.MainConfig, cc.In, args)
	if err != nil {
		return err
	}
	_, err = io.WriteString(cc.Out, out)
	return err
}

// renderInputs renders the documents of files, or of in when files is
// empty or names -. Documents are separated by a --- line.
func renderInputs(cfg *MainConfig, in io.Reader, files []string) (string, error) {
	var docs []any
	if len(files) == 0 {
		d, err := readDocs(in)
		if err != nil {
			return "", err
		}
		docs = d
	}
	for _, file := range files {
		d, err := readDocsFile(in, file)
		if err != nil {
			return "", err
		}
		docs = append(docs, d...)
	}
	return renderDocs(cfg, docs)
}

func renderDocs(cfg *MainConfig, docs []any) (string, error) {
	log := debug.Logger("treeview")
	var buf strings.Builder
	opts := cfg.printOpts()
	for i, doc := range docs {
		if i > 0 {
			buf.WriteString("---\n")
		}
		if err := tree.Fprint(&buf, toTree(doc), opts...); err != nil {
			return "", fmt.Errorf("error rendering document %d: %w", i, err)
		}
		log.Debug().Int("doc", i).Int("bytes", buf.Len()).Msg("rendered")
	}
	return buf.String(), nil
}

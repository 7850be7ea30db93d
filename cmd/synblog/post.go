package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/eringen/synblog"
	"github.com/eringen/synblog/markdown"
	"github.com/eringen/synblog/syn"
)

// withFiles opens args[0] for reading and args[1] for writing, falling back
// to stdin and stdout.
func withFiles(args []string, fn func(in io.Reader, out, errOut io.Writer) error) error {
	var in io.Reader = os.Stdin
	var out io.Writer = os.Stdout
	if len(args) > 0 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	if len(args) > 1 {
		f, err := os.Create(args[1])
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return fn(in, out, os.Stderr)
}

// runRender writes a post as a standalone HTML page. Blocks that do not
// parse are reported on errOut and left out.
func runRender(in io.Reader, out, errOut io.Writer) error {
	dec := syn.NewDecoder(in)
	dec.OnDrop = func(block string, err error) {
		fmt.Fprintf(errOut, "dropped %q: %v\n", block, err)
	}
	doc, err := dec.Decode()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>%s</title></head>\n<body><h1>%s</h1>\n<time>%s</time>\n%s\n</body></html>\n",
		doc.Title, doc.Title, doc.PostedString(), doc.HTML())
	return err
}

// runConvert turns Markdown into a post posted now.
func runConvert(in io.Reader, out, _ io.Writer) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	doc := markdown.ToDocument(src, nil, uint64(time.Now().Unix()))
	_, err = doc.WriteTo(out)
	return err
}

// runNew writes a skeleton post named after title into dir and returns its
// path.
func runNew(dir, title string) (string, error) {
	slug := synblog.Slugify(title)
	if slug == "" {
		return "", fmt.Errorf("title %q has no usable characters", title)
	}
	path := filepath.Join(dir, slug+synblog.PostExt)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	doc := syn.New(synblog.HeaderField(title), nil, uint64(time.Now().Unix()), "",
		syn.Text{Body: "Write here."})
	return path, syn.SaveFile(path, doc)
}

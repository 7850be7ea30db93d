package main

import (
	"fmt"
	"os"

	"github.com/eringen/synblog"
)

// runSync imports or exports dir against the database at DATABASE_PATH.
func runSync(cmd, dir string) error {
	store, err := synblog.NewStore(synblog.EnvOr("DATABASE_PATH", "data/blog.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	if cmd == "export" {
		n, err := store.ExportDir(dir)
		if err != nil {
			return err
		}
		fmt.Printf("exported %d posts to %s\n", n, dir)
		return nil
	}
	n, err := store.ImportDir(dir, func(path, block string, err error) {
		fmt.Fprintf(os.Stderr, "%s: dropped %q: %v\n", path, block, err)
	})
	if err != nil {
		return err
	}
	fmt.Printf("imported %d posts from %s\n", n, dir)
	return nil
}

package main

import (
	"fmt"
	"os"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	args := os.Args[2:]
	var err error
	switch os.Args[1] {
	case "serve":
		err = runServe()
	case "render":
		err = withFiles(args, runRender)
	case "convert":
		err = withFiles(args, runConvert)
	case "new":
		if len(args) < 1 {
			fmt.Fprintln(os.Stderr, "Usage: synblog new <title>")
			os.Exit(1)
		}
		var path string
		path, err = runNew(".", args[0])
		if err == nil {
			fmt.Printf("created %s\n", path)
		}
	case "import", "export":
		if len(args) < 1 {
			fmt.Fprintf(os.Stderr, "Usage: synblog %s <dir>\n", os.Args[1])
			os.Exit(1)
		}
		err = runSync(os.Args[1], args[0])
	case "version":
		fmt.Printf("synblog %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`synblog - A blog engine for posts written in the syn format

Usage:
  synblog <command> [arguments]

Commands:
  serve                      Run the blog server (configured from the environment)
  render [in.syn] [out.html] Render a post to HTML
  convert [in.md] [out.syn]  Convert a Markdown file to a post
  new <title>                Write a skeleton post <slug>.syn
  import <dir>               Load every .syn file in dir into the database
  export <dir>               Write every post in the database to dir
  version                    Print the synblog version
  help                       Show this help message

render and convert read stdin and write stdout when files are omitted.

Environment:
  ADMIN_PASSWORD, ADMIN_SESSION_SECRET   required by serve
  SITE_NAME, SITE_URL, SITE_DESCRIPTION, SITE_AUTHOR
  ADDR, DATABASE_PATH, POSTS_DIR, COOKIE_SECURE, POST_CACHE_TTL, LOG_LEVEL`)
}

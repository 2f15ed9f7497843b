// Package content embeds the MysticCastle world files and the browser front end.
package content

import (
	"embed"
	"io/fs"
)

//go:embed mysticcastle/*.lua
var files embed.FS

//go:embed web
var web embed.FS

// World returns the MysticCastle world as a file system of .lua files.
func World() fs.FS {
	return sub(files, "mysticcastle")
}

// Web returns the static browser front end served by the HTTP server.
func Web() fs.FS {
	return sub(web, "web")
}

func sub(fsys embed.FS, dir string) fs.FS {
	s, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err) // the embed patterns guarantee the directories exist
	}
	return s
}

package achievement

import (
	"embed"
	"io/fs"
)

//go:embed data/*
var dataFS embed.FS

// DataFS returns the catalog files shipped with the binary
func DataFS() fs.FS {
	sub, err := fs.Sub(dataFS, "data")
	if err != nil {
		// Only fails for an invalid path literal
		panic(err)
	}
	return sub
}

// Package main is the entrypoint for the progression service binary.
//
//	@title						Dine Together Progression API
//	@version					1.0
//	@description				XP ledger, levels, dining statistics and achievements for Dine Together users.
//	@BasePath					/
//	@securityDefinitions.apikey	ApiKeyAuth
//	@in							header
//	@name						X-API-Key
package main

import "github.com/donalcheung/dine-together-sub000/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}

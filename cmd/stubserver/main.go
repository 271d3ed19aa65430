package main

import (
	"log"
	"net/http"

	"github.com/unclebandit/outreach-console/internal/config"
	"github.com/unclebandit/outreach-console/internal/stubapi"
)

// Stand-in review collaborator for local development. It keeps everything
// in memory and comes pre-seeded with sample leads and default templates.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	srv := stubapi.New(stubapi.WithLeads(stubapi.SeedLeads()))

	log.Println("🚀 Stub collaborator running on", cfg.StubAddr)
	log.Fatal(http.ListenAndServe(cfg.StubAddr, srv.Router()))
}

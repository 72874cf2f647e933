package main

import (
	"testing"

	"github.com/verte-zerg/tuirace/internal/model"
)

func TestValidateConfig(t *testing.T) {
	base := model.Config{Difficulty: model.Easy, Source: sourceLocal, Words: 10}
	if err := validateConfig(base, model.ServerConfig{}); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := map[string]model.Config{
		"zero words":     {Source: sourceLocal, Words: 0},
		"unknown source": {Source: "ftp", Words: 10},
		"remote no url":  {Source: sourceRemote, Words: 10},
		"generated id":   {Source: sourceGenerated, Words: 10, PassageID: "abc"},
	}
	for name, cfg := range cases {
		if err := validateConfig(cfg, model.ServerConfig{}); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	remote := model.Config{Source: sourceRemote, Words: 10}
	if err := validateConfig(remote, model.ServerConfig{URL: "http://localhost"}); err != nil {
		t.Fatalf("expected remote config with server to be valid, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	if got := preview("short", 10); got != "short" {
		t.Fatalf("unexpected preview %q", got)
	}
	if got := preview("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("unexpected preview %q", got)
	}
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"room", "passages", "stats", "config"} {
		if _, _, err := root.Find([]string{name}); err != nil {
			t.Fatalf("missing subcommand %s: %v", name, err)
		}
	}
	for _, flag := range []string{"difficulty", "passage", "source", "words", "wordlist"} {
		if root.Flags().Lookup(flag) == nil {
			t.Fatalf("missing flag --%s", flag)
		}
	}
	if root.PersistentFlags().Lookup("server") == nil {
		t.Fatalf("missing persistent --server flag")
	}
}

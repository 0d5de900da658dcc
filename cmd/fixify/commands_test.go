package main

import (
	"testing"
)

func TestCaptureAndSubmitFlow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"signin", "tenant@example.com"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	requireContains(t, out, "Signed in as tenant@example.com")

	out, _, err = runCLI(t, []string{"camera", "acquire"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("camera acquire: %v", err)
	}
	requireContains(t, out, "Previewing")

	out, _, err = runCLI(t, []string{"record", "start"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("record start: %v", err)
	}
	requireContains(t, out, "Recording")

	out, _, err = runCLI(t, []string{"record", "stop"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("record stop: %v", err)
	}
	requireContains(t, out, "Recorded")
	requireContains(t, out, "video/mp4")

	out, _, err = runCLI(t, []string{"submit", "radiator", "valve", "hissing"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requireContains(t, out, "completed")
	requireContains(t, out, "worn washer")

	out, _, err = runCLI(t, []string{"reports", "list"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("reports list: %v", err)
	}
	requireContains(t, out, "Completed")
	requireContains(t, out, "radiator valve hissing")

	out, _, err = runCLI(t, []string{"ping"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	requireContains(t, out, "reachable")

	out, _, err = runCLI(t, []string{"signout"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("signout: %v", err)
	}
	requireContains(t, out, "Signed out")
}

func TestSubmitWithoutClipFails(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, _, err := runCLI(t, []string{"signin", "tenant@example.com"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("signin: %v", err)
	}
	if _, _, err := runCLI(t, []string{"submit", "dripping tap"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected submit to fail without a recorded clip")
	}
}

func TestDisplayStatus(t *testing.T) {
	cases := map[string]string{
		"pending":   "Pending",
		"reviewing": "Reviewing",
		"":          "-",
		"no_device": "No Device",
	}
	for input, want := range cases {
		if got := displayStatus(input); got != want {
			t.Errorf("displayStatus(%q) = %q, want %q", input, got, want)
		}
	}
}

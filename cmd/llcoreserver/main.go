/*
Llcoreserver starts the HTTP API over the grammar-normalization and LL(1)
parsing pipeline and begins listening for requests.

Usage:

	llcoreserver [flags]
	llcoreserver [flags] -l [[ADDRESS]:PORT]

Once started, the server listens for HTTP requests and responds using the
REST surface documented on apiserver.NewRouter. By default it listens on
:8080; this can be changed with --listen/-l or the LLCORE_LISTEN_ADDRESS
environment variable.

If a token secret is not given, one is generated and seeded from system
randomness; as a consequence every token issued becomes invalid as soon as
the server shuts down. This is suitable for local testing only; give a real
secret via --secret/-s or LLCORE_TOKEN_SECRET in any other deployment.

The flags are:

	-v, --version
		Print the current version and exit.

	-c, --config FILE
		Load settings from the given TOML file (config.Load). Flags below
		override whatever the file sets.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be ADDRESS:PORT or :PORT.

	-s, --secret TOKEN_SECRET
		Use the given secret for signing bearer tokens. Must be at least
		config.MinSecretSize bytes.

	-d, --data-dir DIR
		Persist runs to a SQLite database under DIR instead of keeping them
		in memory only.
*/
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/dekarrin/llcore/apiserver"
	"github.com/dekarrin/llcore/config"
	"github.com/dekarrin/llcore/internal/version"
	"github.com/dekarrin/llcore/store"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "LLCORE_LISTEN_ADDRESS"
	EnvSecret = "LLCORE_TOKEN_SECRET"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Print the current version and exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Load settings from the given TOML file.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Use the given secret for signing bearer tokens.")
	flagDataDir = pflag.StringP("data-dir", "d", "", "Persist runs to a SQLite database under this directory.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("llcoreserver %s\n", version.Current)
		return
	}

	cfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}

	if pflag.Lookup("listen").Changed {
		cfg.Server.ListenAddr = *flagListen
	} else if v := os.Getenv(EnvListen); v != "" {
		cfg.Server.ListenAddr = v
	}

	if pflag.Lookup("secret").Changed {
		cfg.Server.TokenSecret = *flagSecret
	} else if v := os.Getenv(EnvSecret); v != "" {
		cfg.Server.TokenSecret = v
	} else {
		generated, err := randomSecret()
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		cfg.Server.TokenSecret = generated
		log.Printf("WARN  using a generated token secret; all issued tokens become invalid at shutdown")
	}

	if pflag.Lookup("data-dir").Changed {
		cfg.Store.DataDir = *flagDataDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: invalid configuration: %s\n", err.Error())
		os.Exit(1)
	}

	var repo store.Repository
	if cfg.Store.DataDir != "" {
		repo, err = store.NewSQLiteDatastore(cfg.Store.DataDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not open store: %s\n", err.Error())
			os.Exit(1)
		}
	} else {
		repo = store.NewInMemory()
	}
	defer repo.Close()

	api := apiserver.API{Store: repo, Config: cfg}
	logger := log.New(os.Stderr, "", log.LstdFlags)
	router := apiserver.NewRouter(api, logger, cfg)

	tok, err := apiserver.GenerateServiceToken([]byte(cfg.Server.TokenSecret))
	if err != nil {
		log.Printf("WARN  could not pre-generate a demo service token: %s", err.Error())
	} else {
		log.Printf("INFO  demo bearer token for write endpoints: %s", tok)
	}

	log.Printf("INFO  llcoreserver %s listening on %s", version.Current, cfg.Server.ListenAddr)
	if err := http.ListenAndServe(cfg.Server.ListenAddr, router); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}

func randomSecret() (string, error) {
	b := make([]byte, 48)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

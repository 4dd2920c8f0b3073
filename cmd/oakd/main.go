/*
Oakd serves incremental parsing of the bundled jsonlang grammar over HTTP.

It is a small demonstration daemon, not a production parsing service:
sessions live in memory only and are lost on restart, and the bundled user
store exists solely to exercise bearer-token auth.

Usage:

	oakd [flags]

The flags are:

	-v, --version
		Print the current version of oak and exit.

	--addr ADDR
		Address to listen on. Defaults to ":8080".

	--lang-config FILE
		Load grammar configuration from a TOML file, the same as cmd/oak.

	--audit-db FILE
		sqlite file for the parse-request audit log. Defaults to
		"oakd-audit.db" in the current directory.

	--jwt-secret SECRET
		Secret used to sign bearer tokens. A random secret is generated (and
		printed once) if this is left unset, which means existing tokens do
		not survive a restart.

On startup a single demo user, "demo" with password "demo", is created so a
client can immediately exercise POST /login without a separate provisioning
step.
*/
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dekarrin/oak/internal/version"
	"github.com/dekarrin/oak/lang"
	"github.com/dekarrin/oak/lexer"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitParseError
	ExitInitError
)

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Gives the version info")
	flagAddr    = pflag.String("addr", ":8080", "Address to listen on")
	langConfig  = pflag.String("lang-config", "", "TOML file of grammar configuration overrides")
	auditDBFile = pflag.String("audit-db", "oakd-audit.db", "sqlite file for the parse-request audit log")
	jwtSecret   = pflag.String("jwt-secret", "", "Secret used to sign bearer tokens; random if unset")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := lang.Config{}
	if *langConfig != "" {
		loaded, err := lang.LoadConfig(*langConfig)
		if err != nil {
			log.Error("loading lang config", "error", err.Error())
			returnCode = ExitInitError
			return
		}
		cfg = loaded
	}

	secret := []byte(*jwtSecret)
	if len(secret) == 0 {
		generated, err := randomSecret(32)
		if err != nil {
			log.Error("generating jwt secret", "error", err.Error())
			returnCode = ExitInitError
			return
		}
		secret = generated
		log.Warn("no --jwt-secret given; generated a random one for this run only", "hex", hex.EncodeToString(secret))
	}

	audit, err := openAuditLog(*auditDBFile)
	if err != nil {
		log.Error("opening audit log", "error", err.Error())
		returnCode = ExitInitError
		return
	}
	defer audit.Close()

	users := newUserStore()
	if _, err := users.createUser("demo", "demo"); err != nil {
		log.Error("creating demo user", "error", err.Error())
		returnCode = ExitInitError
		return
	}

	a := &api{cfg: cfg, cache: &lexer.Cache{}, sessions: newSessionStore(), audit: audit}

	r := newRouter(a, users, secret, log)

	log.Info("oakd listening", "addr", *flagAddr)
	if err := http.ListenAndServe(*flagAddr, r); err != nil {
		log.Error("server exited", "error", err.Error())
		returnCode = ExitParseError
	}
}

func newRouter(a *api, users *userStore, secret []byte, log *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Post("/login", func(w http.ResponseWriter, req *http.Request) {
		epLogin(users, secret)(req).writeResponse(w, req, log)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireAuth(users, secret, time.Second, log))

		r.Post("/parse", func(w http.ResponseWriter, req *http.Request) {
			a.epParse(req).writeResponse(w, req, log)
		})
		r.Get("/whoami", func(w http.ResponseWriter, req *http.Request) {
			a.epWhoAmI(req).writeResponse(w, req, log)
		})
	})

	return r
}

func randomSecret(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/classroom-backend/internal/platform/logger"
	"github.com/yungbote/classroom-backend/internal/store"
)

// seedcheck loads a demo seed into a local-authority store and prints a
// summary, failing when the seed does not parse or validate.
func main() {
	var path string
	var legacy bool
	flag.StringVar(&path, "seed", "", "seed file (embedded seed when empty)")
	flag.BoolVar(&legacy, "legacy", false, "print the singular-shape class view")
	flag.Parse()

	log, err := logger.New("development")
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	seed, err := store.LoadSeed(path)
	if err != nil {
		fmt.Printf("load seed: %v\n", err)
		os.Exit(1)
	}
	st, err := store.New(log, store.DefaultAuthority(true), seed)
	if err != nil {
		fmt.Printf("init store: %v\n", err)
		os.Exit(1)
	}

	snap := st.Snapshot()
	fmt.Printf("users=%d classes=%d trails=%d modules=%d contents=%d enrollments=%d meetings=%d\n",
		len(snap.Users), len(snap.Classes), len(snap.Trails), len(snap.Modules),
		len(snap.Contents), len(snap.Enrollments), len(snap.Meetings))
	if cu, owner := st.CurrentUser(); cu != nil {
		fmt.Printf("current_user=%s role=%s owner=%s\n", cu.Email, cu.Role, owner)
	}

	if legacy {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(st.LegacyClasses()); err != nil {
			fmt.Printf("encode: %v\n", err)
			os.Exit(1)
		}
	}
}

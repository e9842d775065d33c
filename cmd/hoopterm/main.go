// Command hoopterm plays a shooting session in the terminal. The session runs
// in a local room; nothing talks to the server.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"github.com/playmatatu/hoopshot/internal/config"
	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
)

func main() {
	variant := flag.String("variant", game.VariantSlingshot, "variant to play")
	variantsFile := flag.String("variants", os.Getenv("VARIANTS_FILE"), "TOML file with extra variants")
	player := flag.String("player", os.Getenv("USER"), "name shown in the local score table")
	scoresPath := flag.String("scores", "hoopterm.db", "sqlite file for local scores (empty to disable)")
	logPath := flag.String("log", "", "write logs to this file")
	mute := flag.Bool("mute", false, "disable sound")
	clickMode := flag.Bool("click", false, "shoot with a single click instead of a drag (default for click variants)")
	flag.Parse()

	// The screen belongs to tcell; logs only go to a file.
	log.SetOutput(io.Discard)
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	presets, err := config.LoadVariants(*variantsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load variants: %v\n", err)
		os.Exit(1)
	}
	params, ok := presets[*variant]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown variant %q (have %v)\n", *variant, game.PresetNames(presets))
		os.Exit(1)
	}

	var scores *scoreBook
	if *scoresPath != "" {
		scores, err = openScoreBook(*scoresPath)
		if err != nil {
			log.Printf("[TERM] Local scores disabled: %v", err)
		} else {
			defer scores.close()
		}
	}

	if err := play(params, *player, *clickMode || params.Click, *mute, scores); err != nil {
		fmt.Fprintf(os.Stderr, "hoopterm: %v\n", err)
		os.Exit(1)
	}
}

func play(params game.Params, player string, click, mute bool, scores *scoreBook) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()
	screen.Clear()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sounds := newSoundboard(mute)
	defer sounds.close()

	f := &feed{}
	r := room.New(uuid.NewString(), player, params, f, room.Options{TickHz: 60, BroadcastEvery: 1})
	go r.Run(ctx)
	defer func() {
		r.Stop()
		<-r.Done()
	}()

	u := &ui{
		screen: screen,
		room:   r,
		params: params,
		feed:   f,
		sounds: sounds,
		scores: scores,
		player: player,
		click:  click,
	}
	u.run(ctx)
	return nil
}

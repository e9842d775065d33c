package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
)

const (
	frameInterval = 16 * time.Millisecond
	commandWait   = time.Second
	guidePoints   = 24
	guideStep     = 0.08
	bestShown     = 5
)

var (
	styleHUD   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHelp  = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFloor = tcell.StyleDefault.Foreground(tcell.ColorOlive)
	styleRim   = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleNet   = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleBall  = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleGuide = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleGood  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleBad   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
)

// ui draws a local room and turns keys and mouse gestures into room commands.
type ui struct {
	screen tcell.Screen
	room   *room.Room
	params game.Params
	feed   *feed
	sounds *soundboard
	scores *scoreBook
	player string
	click  bool

	view    viewport
	snap    game.Snapshot
	message string
	msgOK   bool
	best    []localScore

	pressed   bool
	dragging  bool
	dragStart game.Vec2
	dragNow   game.Vec2
}

func (u *ui) run(ctx context.Context) {
	u.resize()
	u.loadBest()

	events := make(chan tcell.Event, 32)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-u.room.Done():
			return
		case ev := <-events:
			if !u.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			u.update()
			u.draw()
		}
	}
}

// handleEvent returns false when the player asked to quit.
func (u *ui) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		u.screen.Sync()
		u.resize()
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			u.startOrRestart()
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case ' ':
				u.startOrRestart()
			case 'r':
				u.do(u.room.Restart)
				u.message = ""
			}
		}
	case *tcell.EventMouse:
		x, y := ev.Position()
		u.handleMouse(ev.Buttons()&tcell.Button1 != 0, u.view.toNDC(x, y))
	}
	return true
}

// handleMouse follows the primary button. In drag mode a press starts the
// drag, motion aims and release shoots; in click mode the press shoots.
func (u *ui) handleMouse(down bool, p game.Vec2) {
	switch {
	case down && !u.pressed:
		u.pressed = true
		switch {
		case u.snap.State == game.StateIdle || u.snap.State == game.StateGameOver:
			u.startOrRestart()
		case u.click:
			u.do(func(ctx context.Context) (bool, error) { return u.room.Click(ctx, p) })
		default:
			u.dragging = true
			u.dragStart, u.dragNow = p, p
		}
	case down && u.dragging:
		u.dragNow = p
		u.do(func(ctx context.Context) (bool, error) { return u.room.Aim(ctx, u.dragStart, p) })
	case !down && u.pressed:
		u.pressed = false
		if u.dragging {
			u.dragging = false
			u.dragNow = p
			u.do(func(ctx context.Context) (bool, error) { return u.room.Shoot(ctx, u.dragStart, p) })
		}
	}
}

func (u *ui) startOrRestart() {
	if u.snap.State != game.StateIdle {
		u.do(u.room.Restart)
	}
	u.do(u.room.Start)
	u.message = ""
}

func (u *ui) do(call func(ctx context.Context) (bool, error)) bool {
	ctx, cancel := context.WithTimeout(context.Background(), commandWait)
	defer cancel()
	accepted, err := call(ctx)
	if err != nil {
		log.Printf("[TERM] Command failed: %v", err)
		u.message, u.msgOK = "room unavailable", false
		return false
	}
	return accepted
}

// update pulls the latest room state and reacts to new transitions.
func (u *ui) update() {
	snap, trs := u.feed.take()
	u.snap = snap
	for _, tr := range trs {
		switch tr.To {
		case game.StateScored:
			u.sounds.swish()
			u.message, u.msgOK = fmt.Sprintf("Swish! %d in", tr.Score), true
		case game.StateMissed:
			u.sounds.clank()
			reason := "missed"
			if tr.Attempt != nil && tr.Attempt.Miss != game.MissNone {
				reason = "missed: " + string(tr.Attempt.Miss)
			}
			u.message, u.msgOK = reason, false
		case game.StateGameOver:
			u.sounds.buzzer()
			u.message, u.msgOK = fmt.Sprintf("Game over, %d of %d. Space to play again", tr.Score, u.params.MaxTries), tr.Score > 0
			u.saveScore(tr.Score)
		}
	}
}

func (u *ui) saveScore(score int) {
	if u.scores == nil {
		return
	}
	if err := u.scores.record(u.player, u.params.Name, score, u.params.MaxTries, time.Now()); err != nil {
		log.Printf("[TERM] %v", err)
		return
	}
	u.loadBest()
}

func (u *ui) loadBest() {
	if u.scores == nil {
		return
	}
	best, err := u.scores.top(u.params.Name, bestShown)
	if err != nil {
		log.Printf("[TERM] %v", err)
		return
	}
	u.best = best
}

func (u *ui) resize() {
	w, h := u.screen.Size()
	u.view = newViewport(u.params, w, h)
}

func (u *ui) draw() {
	u.screen.Clear()
	u.drawHUD()
	u.drawCourt()
	if u.dragging && u.snap.State == game.StateAiming {
		u.drawGuide()
	}
	u.put(u.snap.Ball, 'O', styleBall)
	if u.snap.State == game.StateGameOver || u.snap.State == game.StateIdle {
		u.drawBest()
	}
	u.screen.Show()
}

func (u *ui) drawHUD() {
	line := fmt.Sprintf("HOOPSHOT %s  score %d  tries %d/%d  [%s]",
		u.params.Name, u.snap.Score, u.snap.TriesRemaining, u.snap.MaxTries, u.snap.State)
	u.text(0, 0, line, styleHUD)

	switch {
	case u.message != "" && u.msgOK:
		u.text(0, 1, u.message, styleGood)
	case u.message != "":
		u.text(0, 1, u.message, styleBad)
	case u.snap.State == game.StateIdle:
		u.text(0, 1, "space: start   q: quit", styleHelp)
	case u.click:
		u.text(0, 1, "click above the ball to shoot   r: restart", styleHelp)
	default:
		u.text(0, 1, "drag and release to shoot   r: restart", styleHelp)
	}
}

func (u *ui) drawCourt() {
	if _, row, ok := u.view.toCell(game.NewVec3(u.params.FieldMinX, u.params.FloorY, 0)); ok {
		for col := 0; col < u.view.cols; col++ {
			u.screen.SetContent(col, row, '─', nil, styleFloor)
		}
	}

	t := u.params.Target
	left, rowL, okL := u.view.toCell(t.Center.Plus(game.NewVec3(-t.Radius, 0, 0)))
	right, _, okR := u.view.toCell(t.Center.Plus(game.NewVec3(t.Radius, 0, 0)))
	if !okL || !okR {
		return
	}
	for col := left; col <= right; col++ {
		u.screen.SetContent(col, rowL, '=', nil, styleRim)
	}
	if right-left >= 2 {
		u.screen.SetContent(left+1, rowL+1, '\\', nil, styleNet)
		u.screen.SetContent(right-1, rowL+1, '/', nil, styleNet)
	}
}

func (u *ui) drawGuide() {
	v := u.params.Velocity(u.dragStart, u.dragNow)
	if v.IsZero() {
		return
	}
	from := u.params.Start.Plus(game.Vec3{}.WithXY(u.params.AimOffset(u.dragStart, u.dragNow)))
	for _, pos := range game.PredictPath(from, v, u.params.Gravity, guideStep, guidePoints)[1:] {
		u.put(pos, '·', styleGuide)
	}
}

func (u *ui) drawBest() {
	if len(u.best) == 0 {
		return
	}
	row := u.view.top + 1
	u.text(2, row, "Best on this machine", styleHUD)
	for i, s := range u.best {
		line := fmt.Sprintf("%d. %-12s %d/%d  %s", i+1, s.Player, s.Score, s.MaxTries, s.When().Format("2006-01-02"))
		u.text(2, row+1+i, line, styleHelp)
	}
}

func (u *ui) put(pos game.Vec3, r rune, style tcell.Style) {
	if col, row, ok := u.view.toCell(pos); ok {
		u.screen.SetContent(col, row, r, nil, style)
	}
}

func (u *ui) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		u.screen.SetContent(x+i, y, r, nil, style)
	}
}

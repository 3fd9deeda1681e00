// Package logic loads the game logic file that drives growth and ranking.
//
// The logic file lists the competing areas together with the growth,
// barrier, and opacity settings the renderer needs. Both the original JSON
// layout (logic.json) and an equivalent TOML layout are accepted:
//
//	l, err := logic.Load("public/logic.json")
//	if err != nil {
//	    return err
//	}
//	progress := l.Progress(time.Since(turnStart))
//
// Optional engine tunables live under an "engine" table. Zero values select
// the reference constants, so most logic files never mention it.
package logic

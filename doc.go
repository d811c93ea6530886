// Package lattice is a small retained-mode widget layer for [Ebitengine],
// built for grid puzzle boards.
//
// Widgets form a tree rooted at [Scene.Root]. Each widget exposes observable
// properties ([Value]), is positioned by a [Layout], and draws through its
// [Canvas]. On top of that lattice adds three pieces:
//
//   - Animated properties. An [AnimatedProperty] declares how assignments to a
//     property are animated. Assigning through [Animated.Set] interpolates
//     over the declared duration, driven by the scene's [Animator].
//   - Proxy layouts. A container made with [NewProxyLayout] lets nested
//     groups present their proxies, including multiplied [NewProxyDummy]
//     slots, to the parent's layout pass, and measures each group as the
//     bounding box of its slots.
//   - Render caches. [Widget.SetRenderCache] draws a widget's children into an
//     offscreen image that is rebuilt only when children change or the
//     widget outgrows it.
//
// # Quick start
//
//	scene := lattice.NewScene(640, 480)
//	board := lattice.NewContainer("board", lattice.GridLayout{Cols: 3, Spacing: 4})
//	scene.Root().SetLayout(lattice.AnchorLayout{})
//	scene.Root().AddChild(board)
//
//	highlight := lattice.MustAnimatedProperty("highlight", lattice.Color{},
//		lattice.WithDuration(0.2), lattice.WithTransition(lattice.InOutSine))
//	cell := lattice.NewWidget("cell")
//	board.AddChild(cell)
//	color := highlight.Bind(cell, scene.Animator())
//	color.Set(lattice.Color{R: 1, A: 1}) // fades in over 0.2s
//
//	lattice.Run(scene, lattice.RunConfig{Title: "Board", Width: 640, Height: 480})
//
// # Diagnostics
//
// [SetLogger] routes warnings and, with [Scene.SetDebugMode], per-tick stats
// to a zap logger. [NewFPSWidget] shows the frame rate and [Scene.Screenshot]
// saves the next frame as a PNG.
//
// Everything runs on the Ebitengine update/draw thread; lattice does no
// locking.
//
// [Ebitengine]: https://ebitengine.org
package lattice

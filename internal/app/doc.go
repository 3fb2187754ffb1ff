// Package app wires the mark store into a host editor.
//
// Marks is the controller a host constructs once per session:
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	marks, err := app.New(cfg, editor, app.WithLogger(app.NewLogger(cfg, os.Stderr)))
//	if err != nil {
//	    return err
//	}
//	marks.Init()
//	defer marks.DisposeAndFlush()
//	marks.Attach(feeds.Changes, feeds.Renames, feeds.Deletes)
//
// Init restores the persisted tables and DisposeAndFlush releases every
// subscription and writes the final snapshot. Nothing happens at
// construction time.
package app

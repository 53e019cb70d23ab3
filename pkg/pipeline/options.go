package pipeline

// WithLauncher replaces the launcher used to run the steps. The default is an ExecLauncher writing to the process's
// own standard streams.
func (p *Pipeline) WithLauncher(launcher Launcher) *Pipeline {
	if launcher != nil {
		p.launcher = launcher
	}

	return p
}

package alpha

import (
	"os"
	"path/filepath"
	"plugin"
	"strings"

	"github.com/yanun0323/errors"
	"github.com/yanun0323/logs"
)

// PluginSymbol is the exported descriptor symbol a strategy plugin must
// provide.
const PluginSymbol = "AlphaPlugin"

// Descriptor is the contract a dynamically loaded strategy library exposes.
type Descriptor struct {
	Name    string
	Version string
	Create  func(configJSON string) Strategy
	Destroy func(Strategy)
}

type loadedPlugin struct {
	desc     *Descriptor
	strategy Strategy
}

// LoadPlugins scans dir for .so files, loads each descriptor and registers
// one strategy per plugin. The engine keeps the created strategies and calls
// the plugin's Destroy for each during Stop.
func (e *Engine) LoadPlugins(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrap(err, "read plugin dir")
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".so") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.loadPlugin(path); err != nil {
			return errors.Wrapf(err, "load plugin %s", path)
		}
	}
	return nil
}

func (e *Engine) loadPlugin(path string) error {
	lib, err := plugin.Open(path)
	if err != nil {
		return err
	}

	sym, err := lib.Lookup(PluginSymbol)
	if err != nil {
		return err
	}
	desc, ok := sym.(*Descriptor)
	if !ok {
		return errors.Errorf("symbol %s has unexpected type", PluginSymbol)
	}
	if desc.Create == nil {
		return errors.Errorf("plugin %s has no Create", desc.Name)
	}

	strategy := desc.Create("{}")
	if strategy == nil {
		return errors.Errorf("plugin %s returned nil strategy", desc.Name)
	}
	e.AddAlpha(strategy)

	e.mu.Lock()
	e.plugins = append(e.plugins, loadedPlugin{desc: desc, strategy: strategy})
	e.mu.Unlock()

	logs.Infof("loaded alpha plugin %s %s", desc.Name, desc.Version)
	return nil
}

func (e *Engine) destroyPlugins() {
	e.mu.Lock()
	plugins := e.plugins
	e.plugins = nil
	e.mu.Unlock()

	for _, p := range plugins {
		p.strategy.Shutdown()
		if p.desc.Destroy != nil {
			p.desc.Destroy(p.strategy)
		}
	}
}

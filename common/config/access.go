package config

import (
	"fmt"
	"os"
	"path"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var Path = "url-nodes.yaml"

var instance *NodesConfig
var singletonLock = &sync.Once{}
var instanceLock = &sync.RWMutex{}

func reloadConfig() (*NodesConfig, error) {
	c := NewDefaultConfig()

	// Write a default config if the one given doesn't exist
	info, err := os.Stat(Path)
	exists := err == nil || !os.IsNotExist(err)
	if !exists {
		fmt.Println("Generating new configuration...")
		configBytes, err := yaml.Marshal(c)
		if err != nil {
			return nil, err
		}

		err = os.WriteFile(Path, configBytes, 0644)
		if err != nil {
			return nil, err
		}
	}

	// Get new info about the possible directory after creating
	info, err = os.Stat(Path)
	if err != nil {
		return nil, err
	}

	pathsOrdered := make([]string, 0)
	if info.IsDir() {
		logrus.Info("Config is a directory - loading all files over top of each other")

		files, err := os.ReadDir(Path)
		if err != nil {
			return nil, err
		}

		for _, f := range files {
			pathsOrdered = append(pathsOrdered, path.Join(Path, f.Name()))
		}

		sort.Strings(pathsOrdered)
	} else {
		pathsOrdered = append(pathsOrdered, Path)
	}

	for _, p := range pathsOrdered {
		logrus.Info("Loading config file: ", p)
		buffer, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		if err = yaml.Unmarshal(buffer, c); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", p, err)
		}
	}

	return c, nil
}

func Get() *NodesConfig {
	singletonLock.Do(func() {
		instanceLock.Lock()
		defer instanceLock.Unlock()
		if instance != nil {
			return
		}
		c, err := reloadConfig()
		if err != nil {
			logrus.Fatal(err)
		}
		instance = c
	})
	instanceLock.RLock()
	defer instanceLock.RUnlock()
	return instance
}

// Set replaces the active configuration. Used when embedding the nodes in another process and by tests.
func Set(c *NodesConfig) {
	instanceLock.Lock()
	instance = c
	instanceLock.Unlock()
}

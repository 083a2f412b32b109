package data

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SpawnEntry defines where and how many entities to spawn.
type SpawnEntry struct {
	Name         string  `yaml:"name"`
	X            float64 `yaml:"x"`
	Y            float64 `yaml:"y"`
	VX           float64 `yaml:"vx"`
	VY           float64 `yaml:"vy"`
	Count        int     `yaml:"count"`
	RandomX      float64 `yaml:"randomx"`
	RandomY      float64 `yaml:"randomy"`
	Lifetime     float64 `yaml:"lifetime"`      // seconds, 0 = immortal
	RespawnDelay float64 `yaml:"respawn_delay"` // seconds, 0 = never respawn
}

func (e *SpawnEntry) LifetimeDuration() time.Duration {
	return time.Duration(e.Lifetime * float64(time.Second))
}

func (e *SpawnEntry) RespawnDuration() time.Duration {
	return time.Duration(e.RespawnDelay * float64(time.Second))
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn_list: %w", err)
	}
	return ParseSpawnList(data)
}

// ParseSpawnList decodes a spawn table document.
func ParseSpawnList(data []byte) ([]SpawnEntry, error) {
	var f spawnListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse spawn_list: %w", err)
	}
	for i := range f.Spawns {
		e := &f.Spawns[i]
		if e.Name == "" {
			return nil, fmt.Errorf("parse spawn_list: entry %d has no name", i)
		}
		if e.Count < 0 || e.Lifetime < 0 || e.RespawnDelay < 0 {
			return nil, fmt.Errorf("parse spawn_list: entry %q has a negative field", e.Name)
		}
		if e.Count == 0 {
			e.Count = 1
		}
	}
	return f.Spawns, nil
}

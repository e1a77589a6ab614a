// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package world

import (
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"

	"github.com/embermud/embermud/internal/geometry"
)

// SeedFormatConstraint is the range of seed file format versions this
// build can load.
const SeedFormatConstraint = ">= 1.0.0, < 2.0.0"

// Seed is the YAML shape of a world seed file.
type Seed struct {
	Format string       `yaml:"format"`
	Races  []SeedRace   `yaml:"races"`
	Rooms  []SeedRoom   `yaml:"rooms"`
	Portals []SeedPortal `yaml:"portals"`
	NPCs   []SeedNPC    `yaml:"npcs"`
}

// SeedRace declares a race.
type SeedRace struct {
	Name      string `yaml:"name"`
	Stats     Stats  `yaml:"stats"`
	StartRoom string `yaml:"startRoom"`
	Height    int    `yaml:"height"`
	Weight    int    `yaml:"weight"`
}

// SeedRoom declares a room, keyed for portal references by name.
type SeedRoom struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Position    geometry.Point     `yaml:"position"`
	Flags       []string           `yaml:"flags"`
	Multipliers map[string]float64 `yaml:"multipliers"`
}

// SeedPortal declares a portal between two named rooms.
type SeedPortal struct {
	From         string   `yaml:"from"`
	To           string   `yaml:"to"`
	Name         string   `yaml:"name"`
	Name2        string   `yaml:"name2"`
	Flags        []string `yaml:"flags"`
	Open         bool     `yaml:"open"`
	AutoCloseMS  int      `yaml:"autoCloseMs"`
	AutoCloseMsg string   `yaml:"autoCloseMessage"`
}

// SeedNPC declares an NPC spawn.
type SeedNPC struct {
	Name        string `yaml:"name"`
	Race        string `yaml:"race"`
	Gender      string `yaml:"gender"`
	Behavior    string `yaml:"behavior"`
	Room        string `yaml:"room"`
	HP          int    `yaml:"hp"`
	Respawnable bool   `yaml:"respawnable"`
	MinRespawnS int    `yaml:"minRespawnS"`
	MaxRespawnS int    `yaml:"maxRespawnS"`
}

var seedRoomFlags = map[string]RoomFlags{
	"walls":             RoomHasWalls,
	"ceiling":           RoomHasCeiling,
	"floor":             RoomHasFloor,
	"road":              RoomIsRoad,
	"river":             RoomIsRiver,
	"roof":              RoomHasRoof,
	"distantCharacters": RoomDistantCharacters,
	"dynamicPortals":    RoomDynamicPortals,
}

var seedPortalFlags = map[string]PortalFlags{
	"openFrom":          PortalCanOpenFromRoom,
	"openFrom2":         PortalCanOpenFromRoom2,
	"see":               PortalCanSeeThrough,
	"hear":              PortalCanHearThrough,
	"shoot":             PortalCanShootThrough,
	"pass":              PortalCanPassThrough,
	"seeIfOpen":         PortalCanSeeThroughIfOpen,
	"hearIfOpen":        PortalCanHearThroughIfOpen,
	"shootIfOpen":       PortalCanShootThroughIfOpen,
	"passIfOpen":        PortalCanPassThroughIfOpen,
}

// LoadSeed parses a YAML seed file and populates the realm with its
// races, rooms, portals, and NPCs.
func LoadSeed(r *Realm, data []byte) error {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return oops.Code("SEED_PARSE").Wrapf(err, "parsing seed file")
	}

	version, err := semver.NewVersion(seed.Format)
	if err != nil {
		return oops.Code("SEED_FORMAT").With("format", seed.Format).Wrapf(err, "seed format version")
	}
	constraint, err := semver.NewConstraint(SeedFormatConstraint)
	if err != nil {
		return oops.Wrapf(err, "compiling seed format constraint")
	}
	if !constraint.Check(version) {
		return oops.Code("SEED_FORMAT").With("format", seed.Format).
			Errorf("seed format %s outside supported range %q", seed.Format, SeedFormatConstraint)
	}

	rooms := make(map[string]Ref, len(seed.Rooms))
	for _, sr := range seed.Rooms {
		room := &Room{
			ID:          r.NextRef(TypeRoom),
			Name:        sr.Name,
			Description: sr.Description,
			Position:    sr.Position,
		}
		for _, f := range sr.Flags {
			flag, ok := seedRoomFlags[f]
			if !ok {
				return oops.Code("SEED_PARSE").With("room", sr.Name).Errorf("unknown room flag %q", f)
			}
			room.Flags |= flag
		}
		for k, v := range sr.Multipliers {
			if room.Multipliers == nil {
				room.Multipliers = make(map[EventKind]float64)
			}
			room.Multipliers[EventKind(k)] = v
		}
		r.Add(room)
		rooms[sr.Name] = room.ID
	}

	races := make(map[string]Ref, len(seed.Races))
	for _, sr := range seed.Races {
		start, ok := rooms[sr.StartRoom]
		if !ok {
			return oops.Code("SEED_PARSE").With("race", sr.Name).Errorf("unknown start room %q", sr.StartRoom)
		}
		race := &Race{
			ID:        r.NextRef(TypeRace),
			Name:      sr.Name,
			Stats:     sr.Stats,
			StartRoom: start,
			Height:    sr.Height,
			Weight:    sr.Weight,
		}
		r.Add(race)
		races[sr.Name] = race.ID
	}

	for _, sp := range seed.Portals {
		from, ok := rooms[sp.From]
		if !ok {
			return oops.Code("SEED_PARSE").With("portal", sp.Name).Errorf("unknown room %q", sp.From)
		}
		to, ok := rooms[sp.To]
		if !ok {
			return oops.Code("SEED_PARSE").With("portal", sp.Name).Errorf("unknown room %q", sp.To)
		}
		portal := &Portal{
			ID:    r.NextRef(TypePortal),
			Room:  from,
			Room2: to,
			Name:  sp.Name,
			Name2: sp.Name2,
			Open:  sp.Open,
		}
		for _, f := range sp.Flags {
			flag, ok := seedPortalFlags[f]
			if !ok {
				return oops.Code("SEED_PARSE").With("portal", sp.Name).Errorf("unknown portal flag %q", f)
			}
			portal.Flags |= flag
		}
		if sp.AutoCloseMS > 0 || sp.AutoCloseMsg != "" {
			portal.Openable = &Openable{
				AutoCloseTimeout: time.Duration(sp.AutoCloseMS) * time.Millisecond,
				AutoCloseMessage: sp.AutoCloseMsg,
			}
		}
		r.Add(portal)
		r.Room(from).AddPortal(portal.ID)
		r.Room(to).AddPortal(portal.ID)
	}

	for _, sn := range seed.NPCs {
		room, ok := rooms[sn.Room]
		if !ok {
			return oops.Code("SEED_PARSE").With("npc", sn.Name).Errorf("unknown room %q", sn.Room)
		}
		race, ok := races[sn.Race]
		if !ok {
			return oops.Code("SEED_PARSE").With("npc", sn.Name).Errorf("unknown race %q", sn.Race)
		}
		hp := sn.HP
		if hp == 0 {
			hp = 20
		}
		npc := &Character{
			ID:          r.NextRef(TypeNPC),
			Name:        sn.Name,
			Race:        race,
			Gender:      Gender(sn.Gender),
			HP:          hp,
			MaxHP:       hp,
			Room:        room,
			Behavior:    sn.Behavior,
			Respawnable: sn.Respawnable,
			MinRespawn:  time.Duration(sn.MinRespawnS) * time.Second,
			MaxRespawn:  time.Duration(sn.MaxRespawnS) * time.Second,
			SpawnRoom:   room,
		}
		r.Add(npc)
		r.Room(room).AddCharacter(npc.ID)
	}

	return nil
}

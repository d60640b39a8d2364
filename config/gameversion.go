package config

import "fmt"

const (
	VersionUnknown GameVersion = iota
	VersionNtsc0_00
	VersionNtsc0_01
	VersionNtsc0_02
	VersionPal
)

type GameVersion int

func (v GameVersion) String() string {
	switch v {
	case VersionNtsc0_00:
		return "NTSC-U 0-00"
	case VersionNtsc0_01:
		return "NTSC-U 0-01"
	case VersionNtsc0_02:
		return "NTSC-U 0-02"
	case VersionPal:
		return "PAL"
	default:
		return fmt.Sprintf("unknown(%d)", int(v))
	}
}

var gameVersion GameVersion

func GetGameVersion() GameVersion {
	return gameVersion
}

func SetGameVersion(v GameVersion) {
	gameVersion = v
}

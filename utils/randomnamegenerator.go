package utils

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/Pallinder/go-randomdata"
)

// randomdata keeps one global source
var randomNameLock sync.Mutex

// NameGenerator produces same sequence of unique names for every new instance.
// Each draw is seeded from generator own state only.
type NameGenerator map[string]struct{}

func sillyName(seed int64) string {
	randomNameLock.Lock()
	defer randomNameLock.Unlock()
	randomdata.CustomRand(rand.New(rand.NewSource(seed)))
	return randomdata.SillyName()
}

func (ng *NameGenerator) RandomName() string {
	if *ng == nil {
		*ng = make(map[string]struct{})
	}
	for attempt := int64(0); ; attempt++ {
		name := sillyName(int64(len(*ng))<<16 | attempt)
		// avoid duplicate names
		if _, exists := (*ng)[name]; !exists {
			(*ng)[name] = struct{}{}
			return name
		}
	}
}

// Reserve marks name as used, so it will never be generated
func (ng *NameGenerator) Reserve(name string) {
	if *ng == nil {
		*ng = make(map[string]struct{})
	}
	(*ng)[strings.TrimSpace(name)] = struct{}{}
}

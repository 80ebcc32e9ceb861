package config

import (
	"bytes"
	_ "embed"
	"errors"
	"os"
	"sort"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/AntonStoeckl/casino-floor-simulation/facility"
)

//go:embed default_layout.yaml
var defaultLayout []byte

//go:embed layout.schema.json
var layoutSchema string

const schemaURL = "layout.schema.json"

var (
	ErrReadingLayout      = errors.New("could not read layout file")
	ErrMalformedLayout    = errors.New("layout is not valid YAML")
	ErrLayoutSchema       = errors.New("layout violates the schema")
	ErrInvalidLayoutValue = errors.New("layout has invalid values")
)

// Layout is the YAML rendering of facility.Layout. Money is written in dollars.
type Layout struct {
	Pacing      Pacing     `yaml:"pacing"`
	Population  Population `yaml:"population"`
	OrderItems  IntRange   `yaml:"order_items"`
	Parking     Parking    `yaml:"parking"`
	Hotel       Hotel      `yaml:"hotel"`
	Games       []Game     `yaml:"games"`
	Bars        []Venue    `yaml:"bars"`
	Restaurants []Venue    `yaml:"restaurants"`
	Profiles    []Profile  `yaml:"profiles"`
}

type Pacing struct {
	TimeScale          float64       `yaml:"time_scale"`
	Idle               DurationRange `yaml:"idle"`
	RoundPause         DurationRange `yaml:"round_pause"`
	RestaurantOrderGap DurationRange `yaml:"restaurant_order_gap"`
}

type Population struct {
	InitialCustomers int           `yaml:"initial_customers"`
	MaxCustomers     int           `yaml:"max_customers"`
	SpawnInterval    DurationRange `yaml:"spawn_interval"`
	Balance          MoneyRange    `yaml:"balance"`
}

type Parking struct {
	Slots       int           `yaml:"slots"`
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
}

type Hotel struct {
	Rooms          int      `yaml:"rooms"`
	PricePerSecond float64  `yaml:"price_per_second"`
	StaySeconds    IntRange `yaml:"stay_seconds"`
}

type Game struct {
	Name           string   `yaml:"name"`
	Tables         int      `yaml:"tables"`
	Capacity       IntRange `yaml:"capacity"`
	WinProbability float64  `yaml:"win_probability"`
	Payout         int64    `yaml:"payout"`
}

type Venue struct {
	Name   string     `yaml:"name"`
	Tables int        `yaml:"tables"`
	Staff  int        `yaml:"staff"`
	Menu   []MenuItem `yaml:"menu"`
}

type MenuItem struct {
	Name     string        `yaml:"name"`
	Price    float64       `yaml:"price"`
	PrepTime time.Duration `yaml:"prep_time"`
}

type Profile struct {
	Name          string             `yaml:"name"`
	SpawnWeight   int                `yaml:"spawn_weight"`
	Probabilities Probabilities      `yaml:"probabilities"`
	Bets          MoneyRange         `yaml:"bets"`
	Games         map[string]float64 `yaml:"games"`
}

type Probabilities struct {
	Leave      float64 `yaml:"leave"`
	Strategize float64 `yaml:"strategize"`
	Play       float64 `yaml:"play"`
	Order      float64 `yaml:"order"`
	Sleep      float64 `yaml:"sleep"`
	Restaurant float64 `yaml:"restaurant"`
	Car        float64 `yaml:"car"`
}

type IntRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

type DurationRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

type MoneyRange struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Default returns the built-in casino floor.
func Default() (Layout, error) {
	return Parse(defaultLayout)
}

// DefaultYAML returns the raw built-in layout, e.g. as a starting point for a custom file.
func DefaultYAML() []byte {
	return bytes.Clone(defaultLayout)
}

func Load(path string) (Layout, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, errors.Join(ErrReadingLayout, err)
	}

	return Parse(raw)
}

// Parse checks raw against the embedded schema, decodes it strictly and validates the result.
func Parse(raw []byte) (Layout, error) {
	var l Layout

	if err := checkSchema(raw); err != nil {
		return l, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return l, errors.Join(ErrMalformedLayout, err)
	}

	if err := l.Validate(); err != nil {
		return l, err
	}

	return l, nil
}

// Validate runs the semantic checks the schema cannot express, like unknown games in profiles.
func (l Layout) Validate() error {
	if err := l.Facility().Validate(); err != nil {
		return errors.Join(ErrInvalidLayoutValue, err)
	}

	return nil
}

// Facility converts the layout into the facility's own types.
func (l Layout) Facility() facility.Layout {
	fl := facility.Layout{
		Pacing: facility.Pacing{
			TimeScale:          l.Pacing.TimeScale,
			Idle:               l.Pacing.Idle.toRange(),
			RoundPause:         l.Pacing.RoundPause.toRange(),
			RestaurantOrderGap: l.Pacing.RestaurantOrderGap.toRange(),
		},
		Population: facility.Population{
			InitialCustomers: l.Population.InitialCustomers,
			MaxCustomers:     l.Population.MaxCustomers,
			SpawnInterval:    l.Population.SpawnInterval.toRange(),
			Balance:          l.Population.Balance.toRange(),
		},
		Parking: facility.ParkingLayout{
			Slots:       l.Parking.Slots,
			MaxAttempts: l.Parking.MaxAttempts,
			BaseDelay:   l.Parking.BaseDelay,
		},
		Hotel: facility.HotelLayout{
			Rooms:          l.Hotel.Rooms,
			PricePerSecond: facility.FromFloat(l.Hotel.PricePerSecond),
			StaySeconds:    l.Hotel.StaySeconds.toRange(),
		},
		OrderItems: l.OrderItems.toRange(),
	}

	for _, g := range l.Games {
		fl.Games = append(fl.Games, facility.GameLayout{
			Name:           g.Name,
			Tables:         g.Tables,
			Capacity:       g.Capacity.toRange(),
			WinProbability: g.WinProbability,
			Payout:         g.Payout,
		})
	}

	for _, v := range l.Bars {
		fl.Bars = append(fl.Bars, v.toLayout())
	}

	for _, v := range l.Restaurants {
		fl.Restaurants = append(fl.Restaurants, v.toLayout())
	}

	for _, p := range l.Profiles {
		fl.Profiles = append(fl.Profiles, p.toProfile())
	}

	return fl
}

func (v Venue) toLayout() facility.VenueLayout {
	menu := make(facility.Menu, 0, len(v.Menu))
	for _, item := range v.Menu {
		menu = append(menu, facility.MenuItem{
			Name:     item.Name,
			Price:    facility.FromFloat(item.Price),
			PrepTime: item.PrepTime,
		})
	}

	return facility.VenueLayout{Name: v.Name, Tables: v.Tables, Staff: v.Staff, Menu: menu}
}

// toProfile sorts game preferences by name so that weighted draws do not depend on map order.
func (p Profile) toProfile() facility.Profile {
	names := make([]string, 0, len(p.Games))
	for name := range p.Games {
		names = append(names, name)
	}
	sort.Strings(names)

	prefs := make([]facility.GamePreference, 0, len(names))
	for _, name := range names {
		prefs = append(prefs, facility.GamePreference{Game: name, Weight: p.Games[name]})
	}

	return facility.Profile{
		Name:        p.Name,
		Leave:       p.Probabilities.Leave,
		Strategize:  p.Probabilities.Strategize,
		Play:        p.Probabilities.Play,
		Order:       p.Probabilities.Order,
		Sleep:       p.Probabilities.Sleep,
		Restaurant:  p.Probabilities.Restaurant,
		Car:         p.Probabilities.Car,
		Bets:        p.Bets.toRange(),
		Games:       prefs,
		SpawnWeight: p.SpawnWeight,
	}
}

func (r IntRange) toRange() facility.Range[int] {
	return facility.Between(r.Min, r.Max)
}

func (r DurationRange) toRange() facility.DurationRange {
	return facility.Between(r.Min, r.Max)
}

func (r MoneyRange) toRange() facility.Range[facility.Money] {
	return facility.Between(facility.FromFloat(r.Min), facility.FromFloat(r.Max))
}

// checkSchema bridges the YAML tree into JSON values, which is what the schema validator understands.
func checkSchema(raw []byte) error {
	var tree any
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return errors.Join(ErrMalformedLayout, err)
	}

	asJSON, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(tree)
	if err != nil {
		return errors.Join(ErrMalformedLayout, err)
	}

	var doc any
	if err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(asJSON, &doc); err != nil {
		return errors.Join(ErrMalformedLayout, err)
	}

	schema, err := jsonschema.CompileString(schemaURL, layoutSchema)
	if err != nil {
		return errors.Join(ErrLayoutSchema, err)
	}

	if err = schema.Validate(doc); err != nil {
		return errors.Join(ErrLayoutSchema, err)
	}

	return nil
}

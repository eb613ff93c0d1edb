// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package settings stores site configuration as a sparse key/value table and
presents it as the fixed-shape [Data] object.

Reads are total: every field of [Data] has a default that applies whenever
its key is missing or holds a value of the wrong kind. Writes flatten [Data]
back into rows and upsert them in one batch.
*/
package settings

import "time"

// # Keys

const (
	KeySiteName                = "site_name"
	KeySiteDescription         = "site_description"
	KeyContactEmail            = "contact_email"
	KeyContactPhone            = "contact_phone"
	KeyAddress                 = "address"
	KeyOfficeHours             = "office_hours"
	KeySocialLinks             = "social_links"
	KeyHeroTitle               = "hero_title"
	KeyHeroSubtitle            = "hero_subtitle"
	KeyHomepageSections        = "homepage_sections"
	KeyEventsPerPage           = "events_per_page"
	KeyFeaturedEventsLimit     = "featured_events_limit"
	KeyEnableEventRegistration = "enable_event_registration"
	KeyMaintenanceMode         = "maintenance_mode"
)

const (
	CategoryGeneral  = "general"
	CategoryContact  = "contact"
	CategoryHomepage = "homepage"
	CategoryEvents   = "events"
	CategorySystem   = "system"
)

// definition is the row metadata written when a key is first upserted.
type definition struct {
	Key         string
	Category    string
	Public      bool
	Description string
}

var definitions = []definition{
	{KeySiteName, CategoryGeneral, true, "Department name shown in the header"},
	{KeySiteDescription, CategoryGeneral, true, "Meta description of the site"},
	{KeyContactEmail, CategoryContact, true, "Public contact address"},
	{KeyContactPhone, CategoryContact, true, "Public phone number"},
	{KeyAddress, CategoryContact, true, "Postal address of the department office"},
	{KeyOfficeHours, CategoryContact, true, "Office opening hours"},
	{KeySocialLinks, CategoryContact, true, "Social network name to profile URL"},
	{KeyHeroTitle, CategoryHomepage, true, "Homepage hero heading"},
	{KeyHeroSubtitle, CategoryHomepage, true, "Homepage hero subheading"},
	{KeyHomepageSections, CategoryHomepage, true, "Ordered homepage sections"},
	{KeyEventsPerPage, CategoryEvents, true, "Events listed per page"},
	{KeyFeaturedEventsLimit, CategoryEvents, true, "Featured events on the homepage"},
	{KeyEnableEventRegistration, CategoryEvents, true, "Show registration links on events"},
	{KeyMaintenanceMode, CategorySystem, false, "Serve the maintenance page to visitors"},
}

func lookupDefinition(key string) (definition, bool) {
	for _, d := range definitions {
		if d.Key == key {
			return d, true
		}
	}
	return definition{}, false
}

// # Models

// Setting is one row of admin_settings.
type Setting struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Value       Value     `json:"value"`
	Description *string   `json:"description"`
	Category    string    `json:"category"`
	IsPublic    bool      `json:"is_public"`
	UpdatedAt   time.Time `json:"updated_at"`
	UpdatedBy   *string   `json:"updated_by"`
}

// Data is the structured view of every known setting.
type Data struct {
	SiteName        string `json:"siteName"`
	SiteDescription string `json:"siteDescription"`

	ContactEmail string            `json:"contactEmail"`
	ContactPhone string            `json:"contactPhone"`
	Address      string            `json:"address"`
	OfficeHours  string            `json:"officeHours"`
	SocialLinks  map[string]string `json:"socialLinks"`

	HeroTitle        string   `json:"heroTitle"`
	HeroSubtitle     string   `json:"heroSubtitle"`
	HomepageSections []string `json:"homepageSections"`

	EventsPerPage           int  `json:"eventsPerPage"`
	FeaturedEventsLimit     int  `json:"featuredEventsLimit"`
	EnableEventRegistration bool `json:"enableEventRegistration"`

	MaintenanceMode bool `json:"maintenanceMode"`
}

// Defaults returns the value of every setting on an empty table.
func Defaults() Data {
	return Data{
		SiteName:        "Department of Computer Science",
		SiteDescription: "Teaching, research and events of the Department of Computer Science.",
		ContactEmail:    "info@cs.example.edu",
		ContactPhone:    "",
		Address:         "",
		OfficeHours:     "Mon-Fri 08:00-17:00",
		SocialLinks:     map[string]string{},

		HeroTitle:        "Department of Computer Science",
		HeroSubtitle:     "Shaping the future of computing",
		HomepageSections: []string{"hero", "events", "research", "achievements", "sponsors"},

		EventsPerPage:           12,
		FeaturedEventsLimit:     3,
		EnableEventRegistration: true,

		MaintenanceMode: false,
	}
}

// # Assembly

// Assemble overlays stored values on [Defaults]. Values of the wrong kind
// are ignored.
func Assemble(values map[string]Value) Data {
	data := Defaults()

	str := func(key string, target *string) {
		if s, ok := values[key].AsString(); ok {
			*target = s
		}
	}
	num := func(key string, target *int) {
		if n, ok := values[key].AsNumber(); ok {
			*target = int(n)
		}
	}
	flag := func(key string, target *bool) {
		if b, ok := values[key].AsBool(); ok {
			*target = b
		}
	}

	str(KeySiteName, &data.SiteName)
	str(KeySiteDescription, &data.SiteDescription)
	str(KeyContactEmail, &data.ContactEmail)
	str(KeyContactPhone, &data.ContactPhone)
	str(KeyAddress, &data.Address)
	str(KeyOfficeHours, &data.OfficeHours)
	if m, ok := values[KeySocialLinks].AsMap(); ok {
		data.SocialLinks = m
	}
	str(KeyHeroTitle, &data.HeroTitle)
	str(KeyHeroSubtitle, &data.HeroSubtitle)
	if l, ok := values[KeyHomepageSections].AsList(); ok {
		data.HomepageSections = l
	}
	num(KeyEventsPerPage, &data.EventsPerPage)
	num(KeyFeaturedEventsLimit, &data.FeaturedEventsLimit)
	flag(KeyEnableEventRegistration, &data.EnableEventRegistration)
	flag(KeyMaintenanceMode, &data.MaintenanceMode)

	return data
}

// Flatten is the inverse of [Assemble]: one value per known key, in
// definition order.
func Flatten(data Data) []Entry {
	socialLinks := data.SocialLinks
	if socialLinks == nil {
		socialLinks = map[string]string{}
	}

	values := map[string]Value{
		KeySiteName:                String(data.SiteName),
		KeySiteDescription:         String(data.SiteDescription),
		KeyContactEmail:            String(data.ContactEmail),
		KeyContactPhone:            String(data.ContactPhone),
		KeyAddress:                 String(data.Address),
		KeyOfficeHours:             String(data.OfficeHours),
		KeySocialLinks:             Map(socialLinks),
		KeyHeroTitle:               String(data.HeroTitle),
		KeyHeroSubtitle:            String(data.HeroSubtitle),
		KeyHomepageSections:        List(data.HomepageSections...),
		KeyEventsPerPage:           Number(float64(data.EventsPerPage)),
		KeyFeaturedEventsLimit:     Number(float64(data.FeaturedEventsLimit)),
		KeyEnableEventRegistration: Bool(data.EnableEventRegistration),
		KeyMaintenanceMode:         Bool(data.MaintenanceMode),
	}

	entries := make([]Entry, 0, len(definitions))
	for _, d := range definitions {
		entries = append(entries, d.entry(values[d.Key]))
	}
	return entries
}

// Entry is a key/value pair ready to upsert, with the metadata used when
// the row does not exist yet.
type Entry struct {
	Key         string
	Value       Value
	Category    string
	IsPublic    bool
	Description string
}

func (d definition) entry(value Value) Entry {
	return Entry{Key: d.Key, Value: value, Category: d.Category, IsPublic: d.Public, Description: d.Description}
}

// Package sections holds the static registry that drives every coaching
// questionnaire: one configuration per business-plan section describing
// how to converse about the topic and how to render the structured answer
// as markdown.
package sections

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownSection is returned when a section id is not registered.
// Callers are expected to use only the enumerated ids, so hitting this is
// a programming error rather than user input to tolerate.
var ErrUnknownSection = errors.New("unknown section")

// Config describes one section's conversational setup. Values returned by
// Get are copies; the registry itself is never mutated after init.
type Config struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	APIPath          string   `json:"api_path"`
	InitialPrompt    string   `json:"initial_prompt"`
	SystemPrompt     string   `json:"system_prompt"`
	SuggestedPrompts []string `json:"suggested_prompts"`
	Fields           []Field  `json:"-"`

	// Format renders the structured answer into preview markdown.
	Format Formatter `json:"-"`

	// Schema, when non-empty, is a JSON schema the structured answer
	// payload must satisfy on save.
	Schema string `json:"-"`
}

// Get returns the configuration for a section id, or ErrUnknownSection.
func Get(id string) (Config, error) {
	cfg, ok := configs[id]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownSection, id)
	}

	// Copy the slices so callers cannot reach back into the table.
	out := cfg
	out.SuggestedPrompts = append([]string(nil), cfg.SuggestedPrompts...)
	out.Fields = append([]Field(nil), cfg.Fields...)

	return out, nil
}

// IDs returns all registered section ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(configs))
	for id := range configs {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

const coachPreamble = "You are a business coach helping an entrepreneur write their business plan. " +
	"Ask one question at a time, keep answers concrete, and when the user has given enough detail, " +
	"return the structured answer fields for this section. "

// HelpInstruction is sent instead of the section's follow-up framing when
// the user asks for help: it requests concrete examples without moving the
// conversation off the current topic.
const HelpInstruction = "The user is unsure how to answer. Give two or three concrete, realistic " +
	"examples relevant to their business so far, then restate the current question. Do not change topic."

var configs = map[string]Config{
	"executive-summary": section(Config{
		ID:            "executive-summary",
		Title:         "Executive Summary",
		Description:   "A one-page overview of the whole plan.",
		InitialPrompt: "Let's draft your executive summary. In a sentence or two, what does your business do and for whom?",
		SystemPrompt:  coachPreamble + "Focus on a crisp summary: the concept, the market, the ask. Keep it under a page.",
		SuggestedPrompts: []string{
			"Summarize what we have so far",
			"What makes a strong executive summary?",
		},
		Fields: []Field{
			{Key: "concept", Heading: "Business Concept"},
			{Key: "market", Heading: "Market Opportunity"},
			{Key: "advantage", Heading: "Competitive Advantage"},
			{Key: "ask", Heading: "The Ask"},
		},
	}),
	"company-overview": section(Config{
		ID:            "company-overview",
		Title:         "Company Overview",
		Description:   "What the company is and where it stands today.",
		InitialPrompt: "Tell me about your company. What do you sell, and how far along are you?",
		SystemPrompt:  coachPreamble + "Cover what the company does, its stage, location, and history if any.",
		SuggestedPrompts: []string{
			"We haven't started yet",
			"We've been operating for a while",
		},
		Fields: []Field{
			{Key: "summary", Heading: "Overview"},
			{Key: "stage", Heading: "Current Stage"},
			{Key: "location", Heading: "Location"},
			{Key: "history", Heading: "History"},
		},
	}),
	"vision": section(Config{
		ID:            "vision",
		Title:         "Vision",
		Description:   "Where the business is going long-term.",
		InitialPrompt: "Picture your business five years from now. What does success look like?",
		SystemPrompt:  coachPreamble + "Draw out a long-term vision statement and two or three supporting goals.",
		SuggestedPrompts: []string{
			"Help me think bigger",
			"Give me an example vision statement",
		},
		Fields: []Field{
			{Key: "vision_statement", Heading: "Vision Statement"},
			{Key: "long_term_goals", Heading: "Long-Term Goals"},
		},
	}),
	"mission": section(Config{
		ID:            "mission",
		Title:         "Mission",
		Description:   "Why the business exists and for whom.",
		InitialPrompt: "Why does your business exist? What problem do you solve, and for whom?",
		SystemPrompt:  coachPreamble + "Produce a short mission statement plus the core values behind it.",
		SuggestedPrompts: []string{
			"What's the difference between vision and mission?",
			"Draft one from what I've told you",
		},
		Fields: []Field{
			{Key: "mission_statement", Heading: "Mission Statement"},
			{Key: "values", Heading: "Core Values"},
		},
	}),
	"products-services": section(Config{
		ID:            "products-services",
		Title:         "Products & Services",
		Description:   "What is sold and why customers buy it.",
		InitialPrompt: "Walk me through what you sell. What are your main products or services?",
		SystemPrompt:  coachPreamble + "List each offering with the problem it solves and what makes it different.",
		SuggestedPrompts: []string{
			"I only have one product",
			"How detailed should this be?",
		},
		Fields: []Field{
			{Key: "offerings", Heading: "Offerings"},
			{Key: "problem_solved", Heading: "Problem Solved"},
			{Key: "differentiation", Heading: "Differentiation"},
			{Key: "roadmap", Heading: "Future Offerings"},
		},
	}),
	"legal-structure": section(Config{
		ID:            "legal-structure",
		Title:         "Legal Structure",
		Description:   "Entity type and ownership.",
		InitialPrompt: "How is (or will) your business be legally structured - sole proprietorship, LLC, corporation?",
		SystemPrompt:  coachPreamble + "Establish the entity type, ownership split, and any licenses or permits needed.",
		SuggestedPrompts: []string{
			"Which structure fits a small business?",
			"I haven't decided yet",
		},
		Fields: []Field{
			{Key: "entity_type", Heading: "Entity Type"},
			{Key: "ownership", Heading: "Ownership"},
			{Key: "licenses", Heading: "Licenses & Permits"},
		},
	}),
	"target-market": section(Config{
		ID:            "target-market",
		Title:         "Target Market",
		Description:   "Who the customers are.",
		InitialPrompt: "Who is your ideal customer? Describe them as specifically as you can.",
		SystemPrompt:  coachPreamble + "Build a customer profile: demographics, needs, buying behavior, and market size.",
		SuggestedPrompts: []string{
			"My product is for everyone",
			"How do I estimate market size?",
		},
		Fields: []Field{
			{Key: "customer_profile", Heading: "Customer Profile"},
			{Key: "needs", Heading: "Customer Needs"},
			{Key: "market_size", Heading: "Market Size"},
			{Key: "segments", Heading: "Segments"},
		},
	}),
	"market-research": section(Config{
		ID:            "market-research",
		Title:         "Market Research",
		Description:   "Evidence about the market and its trends.",
		InitialPrompt: "What do you know about your market today - size, growth, trends?",
		SystemPrompt:  coachPreamble + "Gather what the user knows and flag gaps worth researching. Cite no invented numbers.",
		SuggestedPrompts: []string{
			"Where can I find market data?",
			"What trends matter for my industry?",
		},
		Fields: []Field{
			{Key: "findings", Heading: "Key Findings"},
			{Key: "trends", Heading: "Trends"},
			{Key: "open_questions", Heading: "Open Questions"},
		},
	}),
	"competitive-analysis": section(Config{
		ID:            "competitive-analysis",
		Title:         "Competitive Analysis",
		Description:   "Who else serves these customers.",
		InitialPrompt: "Who are your main competitors, direct or indirect?",
		SystemPrompt:  coachPreamble + "Identify competitors, their strengths and weaknesses, and the user's edge.",
		SuggestedPrompts: []string{
			"I don't think I have competitors",
			"How do I find out what competitors charge?",
		},
		Fields: []Field{
			{Key: "competitors", Heading: "Competitors"},
			{Key: "strengths_weaknesses", Heading: "Strengths & Weaknesses"},
			{Key: "our_edge", Heading: "Our Edge"},
		},
	}),
	"swot-analysis": {
		ID:            "swot-analysis",
		Title:         "SWOT Analysis",
		Description:   "Strengths, weaknesses, opportunities, threats.",
		APIPath:       "/api/business-plans/swot-analysis",
		InitialPrompt: "Let's do a quick SWOT. Start with strengths: what does your business do well?",
		SystemPrompt:  coachPreamble + "Walk through strengths, weaknesses, opportunities and threats one quadrant at a time.",
		SuggestedPrompts: []string{
			"Give me examples of threats",
			"Move on to the next quadrant",
		},
		Fields: []Field{
			{Key: "strengths", Heading: "Strengths"},
			{Key: "weaknesses", Heading: "Weaknesses"},
			{Key: "opportunities", Heading: "Opportunities"},
			{Key: "threats", Heading: "Threats"},
		},
		Format: swotFormatter,
	},
	"pricing-strategy": section(Config{
		ID:            "pricing-strategy",
		Title:         "Pricing Strategy",
		Description:   "How offerings are priced and why.",
		InitialPrompt: "How do you plan to price your product or service?",
		SystemPrompt:  coachPreamble + "Settle on a pricing model, the price points, and the reasoning versus competitors.",
		SuggestedPrompts: []string{
			"What pricing models exist?",
			"Am I charging too little?",
		},
		Fields: []Field{
			{Key: "model", Heading: "Pricing Model"},
			{Key: "price_points", Heading: "Price Points"},
			{Key: "rationale", Heading: "Rationale"},
		},
	}),
	"promotion-strategy": section(Config{
		ID:            "promotion-strategy",
		Title:         "Promotion Strategy",
		Description:   "How customers hear about the business.",
		InitialPrompt: "How will customers find out about you?",
		SystemPrompt:  coachPreamble + "Cover channels, messaging, and a rough promotional budget.",
		SuggestedPrompts: []string{
			"Which channels work for a local business?",
			"I have no marketing budget",
		},
		Fields: []Field{
			{Key: "channels", Heading: "Channels"},
			{Key: "messaging", Heading: "Messaging"},
			{Key: "budget", Heading: "Budget"},
		},
	}),
	"sales-strategy": section(Config{
		ID:            "sales-strategy",
		Title:         "Sales Strategy",
		Description:   "How interest turns into revenue.",
		InitialPrompt: "Once someone is interested, how do they actually buy from you?",
		SystemPrompt:  coachPreamble + "Map the sales process from lead to close, including who sells and sales targets.",
		SuggestedPrompts: []string{
			"I sell online only",
			"How do I set sales targets?",
		},
		Fields: []Field{
			{Key: "process", Heading: "Sales Process"},
			{Key: "team", Heading: "Who Sells"},
			{Key: "targets", Heading: "Targets"},
		},
	}),
	"operations-plan": section(Config{
		ID:            "operations-plan",
		Title:         "Operations Plan",
		Description:   "How the business runs day to day.",
		InitialPrompt: "Describe a typical day of running this business. What has to happen?",
		SystemPrompt:  coachPreamble + "Capture daily operations, facilities and equipment, and key processes.",
		SuggestedPrompts: []string{
			"I run this from home",
			"What equipment should I list?",
		},
		Fields: []Field{
			{Key: "daily_operations", Heading: "Daily Operations"},
			{Key: "facilities", Heading: "Facilities & Equipment"},
			{Key: "processes", Heading: "Key Processes"},
		},
	}),
	"management-team": section(Config{
		ID:            "management-team",
		Title:         "Management Team",
		Description:   "Who runs the business.",
		InitialPrompt: "Who is on your team, and what does each person bring?",
		SystemPrompt:  coachPreamble + "List founders and key hires with roles and relevant experience; note gaps to fill.",
		SuggestedPrompts: []string{
			"It's just me right now",
			"What roles should I hire first?",
		},
		Fields: []Field{
			{Key: "team", Heading: "Team"},
			{Key: "experience", Heading: "Relevant Experience"},
			{Key: "gaps", Heading: "Gaps To Fill"},
		},
	}),
	"staffing-plan": section(Config{
		ID:            "staffing-plan",
		Title:         "Staffing Plan",
		Description:   "Headcount and hiring over time.",
		InitialPrompt: "How many people do you need, now and over the next year?",
		SystemPrompt:  coachPreamble + "Plan roles, headcount, hiring timeline, and rough compensation.",
		SuggestedPrompts: []string{
			"Can I use contractors instead?",
			"What does hiring cost?",
		},
		Fields: []Field{
			{Key: "roles", Heading: "Roles"},
			{Key: "timeline", Heading: "Hiring Timeline"},
			{Key: "compensation", Heading: "Compensation"},
		},
	}),
	"suppliers-logistics": section(Config{
		ID:            "suppliers-logistics",
		Title:         "Suppliers & Logistics",
		Description:   "Where inputs come from and how goods move.",
		InitialPrompt: "What do you need to source, and from whom?",
		SystemPrompt:  coachPreamble + "Identify suppliers, lead times, inventory approach, and delivery logistics.",
		SuggestedPrompts: []string{
			"I'm a service business",
			"How much inventory should I hold?",
		},
		Fields: []Field{
			{Key: "suppliers", Heading: "Suppliers"},
			{Key: "inventory", Heading: "Inventory"},
			{Key: "delivery", Heading: "Delivery & Logistics"},
		},
	}),
	"startup-costs": {
		ID:            "startup-costs",
		Title:         "Startup Costs",
		Description:   "One-time costs to get to opening day.",
		APIPath:       "/api/business-plans/startup-costs",
		InitialPrompt: "Let's list what it costs to get this business off the ground. What's the biggest expense you expect?",
		SystemPrompt:  coachPreamble + "Build an itemized startup cost list with amounts and a total. Use the user's numbers only.",
		SuggestedPrompts: []string{
			"What costs do people forget?",
			"Add up what we have",
		},
		Fields: []Field{
			{Key: "items", Heading: "Startup Costs"},
			{Key: "notes", Heading: "Notes"},
		},
		Format: startupCostsFormatter,
		Schema: startupCostsSchema,
	},
	"revenue-model": section(Config{
		ID:            "revenue-model",
		Title:         "Revenue Model",
		Description:   "How money comes in.",
		InitialPrompt: "How exactly does money come into this business?",
		SystemPrompt:  coachPreamble + "Enumerate revenue streams with rough proportions and recurring versus one-off nature.",
		SuggestedPrompts: []string{
			"What revenue models exist?",
			"Can I mix models?",
		},
		Fields: []Field{
			{Key: "streams", Heading: "Revenue Streams"},
			{Key: "recurring", Heading: "Recurring Revenue"},
			{Key: "unit_economics", Heading: "Unit Economics"},
		},
	}),
	"financial-projections": {
		ID:            "financial-projections",
		Title:         "Financial Projections",
		Description:   "Revenue and expense forecast.",
		APIPath:       "/api/business-plans/financial-projections",
		InitialPrompt: "Let's sketch your numbers. What revenue do you realistically expect in year one?",
		SystemPrompt:  coachPreamble + "Produce a 3-year projection (revenue, expenses, net per year) and record the assumptions behind it.",
		SuggestedPrompts: []string{
			"Help me estimate expenses",
			"Is my forecast realistic?",
		},
		Fields: []Field{
			{Key: "projections", Heading: "Projections"},
			{Key: "assumptions", Heading: "Assumptions"},
		},
		Format: projectionsFormatter,
		Schema: projectionsSchema,
	},
	"funding-requirements": section(Config{
		ID:            "funding-requirements",
		Title:         "Funding Requirements",
		Description:   "How much outside money is needed, and for what.",
		InitialPrompt: "Do you need outside funding? How much, and what would it pay for?",
		SystemPrompt:  coachPreamble + "Establish the amount needed, its uses, preferred sources, and repayment or equity terms.",
		SuggestedPrompts: []string{
			"What funding sources exist?",
			"I want to self-fund",
		},
		Fields: []Field{
			{Key: "amount", Heading: "Amount Needed"},
			{Key: "uses", Heading: "Use of Funds"},
			{Key: "sources", Heading: "Sources"},
		},
	}),
}

// section fills the derived fields every standard entry shares: the API
// path convention and the default fields-driven formatter.
func section(cfg Config) Config {
	if cfg.APIPath == "" {
		cfg.APIPath = "/api/business-plans/" + cfg.ID
	}

	if cfg.Format == nil {
		cfg.Format = fieldsFormatter(cfg.Fields)
	}

	return cfg
}

func init() {
	// Non-standard entries declare APIPath by hand; make sure nothing
	// slipped through without a formatter.
	for id, cfg := range configs {
		if cfg.Format == nil {
			cfg.Format = fieldsFormatter(cfg.Fields)
			configs[id] = cfg
		}
	}
}

const startupCostsSchema = `{
	"type": "object",
	"properties": {
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"amount": {"type": "number"}
				},
				"required": ["name", "amount"]
			}
		},
		"total": {"type": "number"},
		"notes": {"type": "string"}
	}
}`

const projectionsSchema = `{
	"type": "object",
	"properties": {
		"projections": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"year": {"type": ["string", "number"]},
					"revenue": {"type": "number"},
					"expenses": {"type": "number"},
					"net": {"type": "number"}
				},
				"required": ["year"]
			}
		},
		"assumptions": {"type": "string"}
	}
}`

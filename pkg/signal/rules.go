package signal

import "regexp"

// Rule is a single named pattern within a category. Rules are matched
// independently so individual patterns can be added, removed, and tested
// without touching the extraction pass.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
}

const (
	// SectorMax caps how many sectors a single profile can carry.
	SectorMax = 3
)

// sectorRules map sector names to their keyword patterns, in priority
// order. Keyword alternations are word-bounded so short tokens like "ai"
// do not match inside unrelated words.
var sectorRules = []Rule{
	{Name: "AI/ML", Pattern: regexp.MustCompile(`(?i)\b(artificial intelligence|machine learning|ai|ml|deep learning|neural|llm|gpt|nlp|computer vision)\b`)},
	{Name: "FinTech", Pattern: regexp.MustCompile(`(?i)\b(fintech|financial|banking|payments?|lending|insurance|insurtech|crypto|blockchain|defi)\b`)},
	{Name: "HealthTech", Pattern: regexp.MustCompile(`(?i)\b(health|medical|healthcare|biotech|pharma|clinical|patients?|telemedicine|digital health)\b`)},
	{Name: "CleanTech", Pattern: regexp.MustCompile(`(?i)\b(climate|solar|sustainable|green energy|carbon|renewable|electric vehicle)\b`)},
	{Name: "DevTools", Pattern: regexp.MustCompile(`(?i)\b(developer|devtools|api|sdk|infrastructure|developer experience|devops|ci/cd)\b`)},
	{Name: "SaaS", Pattern: regexp.MustCompile(`(?i)\b(saas|software as a service|cloud|enterprise|b2b)\b`)},
	{Name: "E-Commerce", Pattern: regexp.MustCompile(`(?i)\b(ecommerce|e-commerce|retail|marketplace|commerce|dtc|direct to consumer)\b`)},
	{Name: "Cybersecurity", Pattern: regexp.MustCompile(`(?i)\b(security|cyber|infosec|encryption|privacy|authentication|identity)\b`)},
}

// capabilityRules are the boolean execution flags. A flag is true only when
// its pattern matched, absence of a match means "not evidenced", never
// "false".
var (
	launchedRule  = Rule{Name: "Product Launched", Pattern: regexp.MustCompile(`(?i)\b(launched|live|available now|try it|sign up)\b`)}
	demoRule      = Rule{Name: "Has Demo", Pattern: regexp.MustCompile(`(?i)\b(demo|playground|sandbox|try free)\b`)}
	customersRule = Rule{Name: "Has Customers", Pattern: regexp.MustCompile(`(?i)\b\d+[k+]?\s*(users|customers|clients|companies)\b`)}
	revenueRule   = Rule{Name: "Has Revenue", Pattern: regexp.MustCompile(`(?i)(\brevenue\b|\barr\b|\bmrr\b|\$\d+[km]?\s*(arr|mrr|revenue))`)}

	techCofounderRule = Rule{Name: "Technical Cofounder", Pattern: regexp.MustCompile(`(?i)(\bcto\b|technical\s*co-?founder|engineer[^.!?]{0,40}founder|\bphd\b)`)}
)

// credentialRules detect founder pedigree mentions. The rule name is what
// lands in the credential signal list.
var credentialRules = []Rule{
	{Name: "FAANG experience", Pattern: regexp.MustCompile(`(?i)\b(ex[-\s]?|former\s+)(google|meta|facebook|apple|amazon|microsoft|netflix|stripe|uber|airbnb|linkedin)\b`)},
	{Name: "Elite education", Pattern: regexp.MustCompile(`(?i)\b(stanford|mit|harvard|berkeley|caltech|yale|princeton)\b`)},
	{Name: "Accelerator alum", Pattern: regexp.MustCompile(`(?i)(y\s*combinator|\byc\s*[ws]?\d{2}\b|techstars|500\s*startups)`)},
	{Name: "PhD", Pattern: regexp.MustCompile(`(?i)\b(ph\.?d|doctorate|professor)\b`)},
	{Name: "Serial founder", Pattern: regexp.MustCompile(`(?i)(serial\s*(entrepreneur|founder)|founded\s*\d+\s*companies|previous exit|sold company|exited|acquired)`)},
}

// gritRules detect persistence indicators in the founding story.
var gritRules = []Rule{
	{Name: "bootstrapped", Pattern: regexp.MustCompile(`(?i)\b(bootstrapped|self-funded|no vc|no funding)\b`)},
	{Name: "pivoted", Pattern: regexp.MustCompile(`(?i)\b(pivot|pivoted|changed direction|after trying)\b`)},
	{Name: "persistence", Pattern: regexp.MustCompile(`(?i)\b(years? building|months? of development|long journey)\b`)},
	{Name: "rejection", Pattern: regexp.MustCompile(`(?i)\b(rejected by|turned down|100 nos|many nos)\b`)},
}

// problemRules detect explicit problem framing, feeding the vision score.
var problemRules = []Rule{
	{Name: "problem statement", Pattern: regexp.MustCompile(`(?i)\b(problem|pain point|struggle|broken|inefficient|frustrating)\b`)},
	{Name: "cost of inaction", Pattern: regexp.MustCompile(`(?i)\b(costs? (companies|businesses|teams)|wasted?|losing|lost revenue)\b`)},
}

// visionRules detect contrarian or why-now framing, feeding the vision
// score.
var visionRules = []Rule{
	{Name: "contrarian belief", Pattern: regexp.MustCompile(`(?i)\b(we believe|contrary to popular|unlike others|most people think|while others)\b`)},
	{Name: "reimagining", Pattern: regexp.MustCompile(`(?i)\b(the future of|reimagining|rethinking|challenging)\b`)},
	{Name: "why now", Pattern: regexp.MustCompile(`(?i)\b(now is the time|the time is right|recent advances|market is ready)\b`)},
}

// fundingRules capture a raise amount plus an optional unit suffix. The
// first two capture groups are always (amount, unit).
var fundingRules = []Rule{
	{Name: "raised", Pattern: regexp.MustCompile(`(?i)raised\s*\$?([\d,]+(?:\.\d+)?)\s*(k|m|mn|b|thousand|million|billion)?\b`)},
	{Name: "amount round", Pattern: regexp.MustCompile(`(?i)\$([\d,]+(?:\.\d+)?)\s*(k|m|mn|b|thousand|million|billion)?\s+(?:in\s+)?(?:pre-)?(?:seed|series|round|funding)`)},
	{Name: "series", Pattern: regexp.MustCompile(`(?i)series\s*[a-e]\s*:?\s*\$([\d,]+(?:\.\d+)?)\s*(k|m|mn|b|thousand|million|billion)?\b`)},
	{Name: "funding labeled", Pattern: regexp.MustCompile(`(?i)funding\s*:?\s*\$?([\d,]+(?:\.\d+)?)\s*(k|m|mn|b|thousand|million|billion)\b`)},
}

// customerCountRule captures an explicit customer or user count with an
// optional k suffix.
var customerCountRule = Rule{
	Name:    "customer count",
	Pattern: regexp.MustCompile(`(?i)\b([\d,]+(?:\.\d+)?)(k)?\+?\s*(?:paying\s+)?(?:users|customers|clients|companies)\b`),
}

// growthRateRule captures a monthly or yearly growth percentage.
var growthRateRule = Rule{
	Name:    "growth rate",
	Pattern: regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)\s*%\s*(?:mom|m/m|month[- ]over[- ]month|monthly|growth|yoy)\b`),
}

// aiDomainRule flags source hosts on the .ai TLD as an AI/ML sector hint.
var aiDomainRule = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?[^/\s]+\.ai(?:/|$)`)

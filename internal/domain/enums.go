package domain

// DocumentType identifies the kind of financial document an applicant uploads.
type DocumentType string

const (
	DocTypeAadhaar       DocumentType = "aadhaar"
	DocTypePAN           DocumentType = "pan"
	DocTypeSalarySlip    DocumentType = "salary_slip"
	DocTypeITR           DocumentType = "itr"
	DocTypeBankStatement DocumentType = "bank_statement"
	DocTypeCIBILReport   DocumentType = "cibil_report"
)

// KnownDocumentTypes lists every document type the engine understands.
var KnownDocumentTypes = map[DocumentType]bool{
	DocTypeAadhaar:       true,
	DocTypePAN:           true,
	DocTypeSalarySlip:    true,
	DocTypeITR:           true,
	DocTypeBankStatement: true,
	DocTypeCIBILReport:   true,
}

// FileType represents the allowed file types for upload.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedContentTypes maps MIME content types back to FileType.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/png":       FileTypePNG,
}

// FailureKind classifies a single field-validation failure.
type FailureKind string

const (
	FailureRequiredMissing      FailureKind = "required_missing"
	FailureFormatMismatch       FailureKind = "format_mismatch"
	FailureChecksumMismatch     FailureKind = "checksum_mismatch"
	FailureCategoryUnrecognized FailureKind = "category_unrecognized"
	FailureAmountParseError     FailureKind = "amount_parse_error"
	FailureScoreOutOfRange      FailureKind = "score_out_of_range"
	FailureWeightSumInvalid     FailureKind = "weight_sum_invalid"
)

// ValidationSeverity grades a validation rule.
type ValidationSeverity string

const (
	ValidationSeverityError   ValidationSeverity = "error"
	ValidationSeverityWarning ValidationSeverity = "warning"
)

// ValidationRuleType categorizes a validation rule.
type ValidationRuleType string

const (
	ValidationRuleRequired ValidationRuleType = "required"
	ValidationRuleRegex    ValidationRuleType = "regex"
	ValidationRuleChecksum ValidationRuleType = "checksum"
	ValidationRuleRange    ValidationRuleType = "range"
)

// PANCategory is the holder category encoded in the fourth letter of a PAN.
type PANCategory string

const (
	PANCategoryIndividual   PANCategory = "individual"
	PANCategoryCompany      PANCategory = "company"
	PANCategoryHUF          PANCategory = "huf"
	PANCategoryFirm         PANCategory = "firm"
	PANCategoryTrust        PANCategory = "trust"
	PANCategoryAOP          PANCategory = "aop"
	PANCategoryBOI          PANCategory = "boi"
	PANCategoryLocalAuth    PANCategory = "local_authority"
	PANCategoryJuridical    PANCategory = "artificial_juridical_person"
	PANCategoryGovernment   PANCategory = "government"
	PANCategoryUnrecognized PANCategory = "unrecognized"
)

// PANCategoryByLetter maps the fourth PAN letter to its holder category.
var PANCategoryByLetter = map[byte]PANCategory{
	'P': PANCategoryIndividual,
	'C': PANCategoryCompany,
	'H': PANCategoryHUF,
	'F': PANCategoryFirm,
	'T': PANCategoryTrust,
	'A': PANCategoryAOP,
	'B': PANCategoryBOI,
	'L': PANCategoryLocalAuth,
	'J': PANCategoryJuridical,
	'G': PANCategoryGovernment,
}

// ConflictSeverity grades a cross-document disagreement.
type ConflictSeverity string

const (
	ConflictSeverityMinor ConflictSeverity = "minor"
	ConflictSeverityMajor ConflictSeverity = "major"
)

// IncomeSourceType tags where an income figure came from.
type IncomeSourceType string

const (
	IncomeSourceSalarySlip    IncomeSourceType = "salary_slip"
	IncomeSourceITR           IncomeSourceType = "itr"
	IncomeSourceBankStatement IncomeSourceType = "bank_statement"
)

// ScoreComponent is a CIBIL score component category.
type ScoreComponent string

const (
	ComponentPaymentHistory    ScoreComponent = "payment_history"
	ComponentCreditUtilization ScoreComponent = "credit_utilization"
	ComponentCreditAge         ScoreComponent = "credit_age"
	ComponentCreditMix         ScoreComponent = "credit_mix"
	ComponentInquiries         ScoreComponent = "inquiries"
)

// RiskTier is the eligibility category driving loan amount and rate.
type RiskTier string

const (
	RiskTierLow        RiskTier = "low"
	RiskTierMedium     RiskTier = "medium"
	RiskTierHigh       RiskTier = "high"
	RiskTierIneligible RiskTier = "ineligible"
)

// InterestRateBand is derived solely from the risk tier.
type InterestRateBand string

const (
	RateBandPrime      InterestRateBand = "prime"
	RateBandStandard   InterestRateBand = "standard"
	RateBandSubprime   InterestRateBand = "subprime"
	RateBandNotOffered InterestRateBand = "not_offered"
)

// UserRole defines the platform role hierarchy.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleAnalyst UserRole = "analyst"
)

// ValidUserRoles is the set of roles accepted on user creation and update.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:   true,
	RoleAnalyst: true,
}

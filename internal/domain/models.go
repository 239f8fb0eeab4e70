package domain

// Category is one of the priced service domains.
type Category string

const (
	CategoryRAG     Category = "rag"
	CategoryVision  Category = "vision"
	CategoryOCR     Category = "ocr"
	CategoryVoice   Category = "voice"
	CategoryStorage Category = "storage"
	CategoryLLM     Category = "llm"
)

// Categories returns every category in recalculation order.
func Categories() []Category {
	return []Category{CategoryRAG, CategoryVision, CategoryOCR, CategoryVoice, CategoryStorage, CategoryLLM}
}

// Form field identifiers sent by the calculator UI.
const (
	FieldRAGStorage = "rag-storage"
	FieldRAGPuts    = "rag-puts"
	FieldRAGGets    = "rag-gets"

	FieldVisionImages = "vision-images"
	FieldVisionVideo  = "vision-video"

	FieldOCRBasic   = "ocr-basic"
	FieldOCRForms   = "ocr-forms"
	FieldOCRExpense = "ocr-expense"

	FieldVoiceInputMins  = "voice-input-mins"
	FieldVoiceOutputMins = "voice-output-mins"

	FieldStorageS3     = "storage-s3"
	FieldStorageDynamo = "storage-dynamo"
	FieldStorageWrites = "storage-writes"
	FieldStorageReads  = "storage-reads"

	FieldLLMModel        = "llm-model"
	FieldLLMInputTokens  = "llm-input-tokens"
	FieldLLMOutputTokens = "llm-output-tokens"
)

// Form holds raw field values keyed by field identifier.
type Form map[string]string

// Quantity returns the sanitized numeric value of a field.
func (f Form) Quantity(field string) float64 {
	return ParseQuantity(f[field])
}

// RAGRequest describes object storage usage for retrieval workloads.
type RAGRequest struct {
	StorageGB     float64 `json:"storage_gb"`
	PutsThousands float64 `json:"puts_thousands"`
	GetsThousands float64 `json:"gets_thousands"`
}

// VisionRequest describes image and video analysis usage.
type VisionRequest struct {
	ImagesThousands float64 `json:"images_thousands"`
	VideoMinutes    float64 `json:"video_minutes"`
}

// OCRRequest describes document text extraction usage in pages.
type OCRRequest struct {
	BasicPages   float64 `json:"basic_pages"`
	FormsPages   float64 `json:"forms_pages"`
	ExpensePages float64 `json:"expense_pages"`
}

// VoiceRequest describes speech usage in minutes.
type VoiceRequest struct {
	InputMinutes  float64 `json:"input_minutes"`
	OutputMinutes float64 `json:"output_minutes"`
}

// StorageRequest describes generic object and key-value storage usage.
type StorageRequest struct {
	S3GB           float64 `json:"s3_gb"`
	DynamoGB       float64 `json:"dynamo_gb"`
	WritesMillions float64 `json:"writes_millions"`
	ReadsMillions  float64 `json:"reads_millions"`
}

// LLMRequest describes token usage for a model tier.
type LLMRequest struct {
	Model                string  `json:"model"`
	InputTokensMillions  float64 `json:"input_tokens_millions"`
	OutputTokensMillions float64 `json:"output_tokens_millions"`
}

// RAGRequestFromForm reads a RAGRequest from raw fields.
func RAGRequestFromForm(f Form) RAGRequest {
	return RAGRequest{
		StorageGB:     f.Quantity(FieldRAGStorage),
		PutsThousands: f.Quantity(FieldRAGPuts),
		GetsThousands: f.Quantity(FieldRAGGets),
	}
}

// VisionRequestFromForm reads a VisionRequest from raw fields.
func VisionRequestFromForm(f Form) VisionRequest {
	return VisionRequest{
		ImagesThousands: f.Quantity(FieldVisionImages),
		VideoMinutes:    f.Quantity(FieldVisionVideo),
	}
}

// OCRRequestFromForm reads an OCRRequest from raw fields.
func OCRRequestFromForm(f Form) OCRRequest {
	return OCRRequest{
		BasicPages:   f.Quantity(FieldOCRBasic),
		FormsPages:   f.Quantity(FieldOCRForms),
		ExpensePages: f.Quantity(FieldOCRExpense),
	}
}

// VoiceRequestFromForm reads a VoiceRequest from raw fields.
func VoiceRequestFromForm(f Form) VoiceRequest {
	return VoiceRequest{
		InputMinutes:  f.Quantity(FieldVoiceInputMins),
		OutputMinutes: f.Quantity(FieldVoiceOutputMins),
	}
}

// StorageRequestFromForm reads a StorageRequest from raw fields.
func StorageRequestFromForm(f Form) StorageRequest {
	return StorageRequest{
		S3GB:           f.Quantity(FieldStorageS3),
		DynamoGB:       f.Quantity(FieldStorageDynamo),
		WritesMillions: f.Quantity(FieldStorageWrites),
		ReadsMillions:  f.Quantity(FieldStorageReads),
	}
}

// LLMRequestFromForm reads an LLMRequest from raw fields.
func LLMRequestFromForm(f Form) LLMRequest {
	return LLMRequest{
		Model:                f[FieldLLMModel],
		InputTokensMillions:  f.Quantity(FieldLLMInputTokens),
		OutputTokensMillions: f.Quantity(FieldLLMOutputTokens),
	}
}

// Estimate is the computed monthly cost of one category.
type Estimate struct {
	Category  Category `json:"category"`
	Total     float64  `json:"total"`
	Formatted string   `json:"formatted"`
}

// RateOverride is a model rate pair as found in a snapshot.
// A nil rate means the snapshot did not carry it.
type RateOverride struct {
	Input  *float64
	Output *float64
}

// Snapshot is a parsed price document keyed by model tier.
type Snapshot struct {
	LastUpdated string
	Models      map[string]RateOverride
}

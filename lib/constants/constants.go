package constants

const (
	ALLOWED_ORIGINS         = "/quality-home/ALLOWED_ORIGINS"
	DATABASE_RDS_ENDPOINT   = "/quality-home/DATABASE_RDS_ENDPOINT"
	DATABASE_PORT           = "/quality-home/DATABASE_PORT"
	DATABASE_NAME           = "/quality-home/DATABASE_NAME"
	DATABASE_USERNAME       = "/quality-home/DATABASE_USERNAME"
	DATABASE_PASSWORD       = "/quality-home/DATABASE_PASSWORD"
	SSL_MODE                = "/quality-home/SSL_MODE"
	STORAGE_ENDPOINT_URL    = "/quality-home/STORAGE_ENDPOINT_URL"
	STORAGE_REGION          = "/quality-home/STORAGE_REGION"
	STORAGE_ACCESS_KEY_ID   = "/quality-home/STORAGE_ACCESS_KEY_ID"
	STORAGE_API_KEY         = "/quality-home/STORAGE_API_KEY"
	STORAGE_PUBLIC_BASE_URL = "/quality-home/STORAGE_PUBLIC_BASE_URL"
	PHOTO_BUCKET            = "/quality-home/PHOTO_BUCKET"
	RECEIPT_BUCKET          = "/quality-home/RECEIPT_BUCKET"
	WEBHOOK_URL             = "/quality-home/WEBHOOK_URL"
	WEBHOOK_TIMEOUT         = "/quality-home/WEBHOOK_TIMEOUT"
	TIMEZONE                = "/quality-home/TIMEZONE"
	MAX_PARALLEL_UPLOADS    = "/quality-home/MAX_PARALLEL_UPLOADS"
	MAX_PHOTO_BYTES         = "/quality-home/MAX_PHOTO_BYTES"
	SSM_PARAMETER_PATH      = "/quality-home"
	DRIVER_NAME             = "postgres"
	AVALIACOES_TABLE        = "avaliacoes_imoveis"
	PHOTO_KEY_PREFIX        = "fotos_imoveis"
	DEFAULT_PHOTO_BUCKET    = "quallity-home"
	DEFAULT_RECEIPT_BUCKET  = "laudos_pdf"
	DEFAULT_TIMEZONE        = "America/Sao_Paulo"
	DEFAULT_STORAGE_REGION  = "us-east-2"
	LAUDO_ID_PREFIX         = "QH-"
)

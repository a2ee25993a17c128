package handlers

import (
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// UploadFormData is the multipart payload for the proxy upload endpoint.
type UploadFormData struct {
	File huma.FormFile `form:"file" required:"true"`
}

// UploadMediaRequest is the request for a proxy upload.
type UploadMediaRequest struct {
	RawBody huma.MultipartFormFiles[UploadFormData]
}

// UploadMediaResponse is the response for a successful proxy upload.
type UploadMediaResponse struct {
	Body struct {
		Success bool   `doc:"Always true on success"       json:"success"`
		URL     string `doc:"Public URL of the stored file" json:"url"`
		Key     string `doc:"Object key in the bucket"      json:"key"`
	}
}

// PresignRequest is the request body for the standard presign endpoint.
type PresignRequest struct {
	Body struct {
		Filename    string `doc:"Original file name"       json:"filename"    required:"true"`
		ContentType string `doc:"Declared MIME type"       json:"contentType" required:"true"`
		Size        int64  `doc:"Declared size in bytes"   json:"size"        required:"true" minimum:"1"`
	}
}

// PresignLargeRequest is the request body for the large-file presign
// endpoint. The field names differ from PresignRequest for
// compatibility with the editorial dashboard's large-upload flow.
type PresignLargeRequest struct {
	Body struct {
		FileName string `doc:"Original file name"     json:"fileName" required:"true"`
		FileType string `doc:"Declared MIME type"     json:"fileType" required:"true"`
		FileSize int64  `doc:"Declared size in bytes" json:"fileSize" required:"true" minimum:"1"`
	}
}

// PresignResponse is the response for both presign endpoints.
type PresignResponse struct {
	Body struct {
		Key       string `doc:"Object key reserved for the upload"   json:"key"`
		UploadURL string `doc:"Time-boxed signed PUT URL"            json:"uploadUrl"`
		PublicURL string `doc:"Public URL once the upload completes" json:"publicUrl"`
	}
}

// VerifyRequest is the request body for the upload verification endpoint.
type VerifyRequest struct {
	Body struct {
		Key string `doc:"Object key to probe" json:"key" required:"true"`
	}
}

// VerifyResponse reports ground truth about an object in the store.
type VerifyResponse struct {
	Body struct {
		Verified     bool       `doc:"Whether the object exists"            json:"verified"`
		Size         *int64     `doc:"Object size in bytes"                 json:"size,omitempty"`
		ContentType  string     `doc:"Stored content type"                  json:"contentType,omitempty"`
		LastModified *time.Time `doc:"Last modification time"               json:"lastModified,omitempty"`
		ETag         string     `doc:"Entity tag reported by the store"     json:"etag,omitempty"`
		Error        string     `doc:"Probe failure detail, if unverified"  json:"error,omitempty"`
	}
}

// LoginRequest is the request body for the admin login endpoint.
type LoginRequest struct {
	Body struct {
		Email    string `doc:"Account email" format:"email" json:"email"    required:"true"`
		Password string `doc:"Account password"             json:"password" required:"true"`
	}
}

// LoginResponse is the response for a successful login.
type LoginResponse struct {
	Headers struct {
		SetCookie string `doc:"Session cookie" header:"Set-Cookie"`
	}
	Body struct {
		Success bool   `json:"success"`
		Role    string `doc:"Role of the authenticated account" json:"role"`
	}
}

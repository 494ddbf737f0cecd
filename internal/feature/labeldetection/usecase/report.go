package usecase

import (
	"errors"
	"fmt"
	"io"

	"label_detection/internal/feature/labeldetection/domain"
	"label_detection/internal/feature/labeldetection/domain/entity"
)

// report はラベル名と丸めた信頼度を検出順に出力します。
func (u *labelDetectionUsecase) report(req entity.DetectionRequest, labels []entity.Label) {
	fmt.Fprintf(u.out, "Detected labels for %s\n\n", req.ImageKey)
	for _, l := range labels {
		fmt.Fprintf(u.out, "Label: %s\n", l.Name)
		fmt.Fprintf(u.out, "Confidence: %s\n\n", entity.FormatConfidence(l.ConfidenceOrZero()))
	}
}

func (u *labelDetectionUsecase) reportError(req entity.DetectionRequest, err error) {
	ReportError(u.out, req, err)
}

// ReportError はエラー種別ごとのメッセージと対処のヒントをwに出力します。
// ワークフロー外の失敗（クライアント生成など）も同じ形式で報告するために公開しています。
func ReportError(w io.Writer, req entity.DetectionRequest, err error) {
	var we *domain.WorkflowError
	if !errors.As(err, &we) {
		we = domain.NewError(domain.KindUnclassified, "", "", err)
	}

	switch we.Kind {
	case domain.KindAuthentication:
		fmt.Fprintln(w, "ERROR: No usable cloud credentials found (missing or partial).")
	case domain.KindUnreadableObject:
		fmt.Fprintln(w, "ERROR: The recognition service couldn't read the storage object.")
		fmt.Fprintln(w, we.Message)
	case domain.KindUnsupportedFormat:
		fmt.Fprintln(w, "ERROR: File isn't a supported image format for the recognition service.")
	case domain.KindService:
		fmt.Fprintf(w, "Service error: %s -> %s\n", we.Code, we.Message)
	case domain.KindStorageAccess:
		if we.Code != "" {
			fmt.Fprintf(w, "ERROR: Could not fetch %s: %s -> %s\n", req.ObjectURI(), we.Code, we.Message)
		} else {
			fmt.Fprintf(w, "ERROR: Could not fetch %s: %s\n", req.ObjectURI(), we.Message)
		}
	case domain.KindDecode:
		fmt.Fprintf(w, "ERROR: Could not decode image: %s\n", we.Message)
	case domain.KindInvalidRequest:
		fmt.Fprintf(w, "ERROR: Invalid request: %s\n", we.Message)
	default:
		cause := we.Err
		if cause == nil {
			cause = we
		}
		fmt.Fprintf(w, "Unexpected error: %#v\n", cause)
	}

	for _, hint := range domain.Hints(we) {
		fmt.Fprintln(w, hint)
	}
}

package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/resumelens/internal/core/domain"
)

// ClassifyError marks provider quota and rate limit rejections with
// domain.ErrQuotaExceeded. Other errors are returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if errors.Is(err, domain.ErrQuotaExceeded) {
		return err
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrQuotaExceeded, err)
	}
	if domain.IsQuotaError(err) {
		return fmt.Errorf("%w: %w", domain.ErrQuotaExceeded, err)
	}
	return err
}

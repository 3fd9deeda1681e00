package httputil_test

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/matzehuels/areamap/pkg/errors"
	"github.com/matzehuels/areamap/pkg/httputil"
)

func ExampleRetry() {
	attempts := 0
	policy := httputil.Policy{Attempts: 3, Delay: time.Millisecond}
	err := httputil.Retry(context.Background(), policy, func() error {
		attempts++
		if attempts < 3 {
			return errors.New(errors.ErrCodeNetwork, "connection reset")
		}
		return nil
	})
	fmt.Println("attempts:", attempts, "err:", err)
	// Output:
	// attempts: 3 err: <nil>
}

func ExampleRetry_permanent() {
	attempts := 0
	policy := httputil.Policy{Attempts: 3, Delay: time.Millisecond}
	err := httputil.Retry(context.Background(), policy, func() error {
		attempts++
		return errors.New(errors.ErrCodeMaskDecode, "not a png")
	})
	fmt.Println("attempts:", attempts, "code:", errors.GetCode(err))
	// Output:
	// attempts: 1 code: MASK_DECODE
}

func ExampleTransient() {
	attempts := 0
	policy := httputil.Policy{Attempts: 2, Delay: time.Millisecond}
	err := httputil.Retry(context.Background(), policy, func() error {
		attempts++
		return httputil.Transient(stderrors.New("flaky"))
	})
	fmt.Println("attempts:", attempts, "err:", err)
	// Output:
	// attempts: 2 err: flaky
}

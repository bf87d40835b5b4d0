// Package citrigger hands identified tests to continuous integration systems.
package citrigger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// Jenkins build parameters sent with every trigger.
const (
	ParamTests     = "TESTS"
	ParamRunID     = "RUN_ID"
	ParamBranch    = "BRANCH"
	ParamBaseRef   = "BASE_REF"
	ParamTargetRef = "TARGET_REF"
	ParamPRNumber  = "PR_NUMBER"
)

// maxTriggerAttempts bounds retries of transient Jenkins failures.
const maxTriggerAttempts = 3

// ErrTriggerRejected reports a non-retryable response from the CI server.
var ErrTriggerRejected = errors.New("trigger rejected by CI server")

// JenkinsTrigger queues parameterized builds through the Jenkins remote API.
type JenkinsTrigger struct {
	baseURL string
	job     string
	user    string
	token   string
	client  *http.Client
}

var _ contract.CITrigger = &JenkinsTrigger{} // Compile-time check

// NewJenkinsTrigger creates a trigger for the given job. Nested jobs use
// slashes ("folder/job"). A nil client selects http.DefaultClient.
func NewJenkinsTrigger(baseURL, job, user, token string, client *http.Client) *JenkinsTrigger {
	if client == nil {
		client = http.DefaultClient
	}
	return &JenkinsTrigger{
		baseURL: strings.TrimRight(baseURL, "/"),
		job:     job,
		user:    user,
		token:   token,
		client:  client,
	}
}

// Name implements the CITrigger interface.
func (j *JenkinsTrigger) Name() string {
	return contract.JenkinsProvider
}

// Trigger implements the CITrigger interface.
// Server errors and transport failures are retried with exponential backoff.
func (j *JenkinsTrigger) Trigger(ctx context.Context, req schema.TriggerRequest) (schema.TriggerReceipt, error) {
	endpoint := j.buildURL()
	body := encodeParams(req).Encode()

	var receipt schema.TriggerReceipt
	operation := func() error {
		r, err := j.post(ctx, endpoint, body)
		if err != nil {
			return err
		}
		receipt = r
		receipt.TestCount = len(req.Tests)
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newBackOff(), maxTriggerAttempts-1),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return schema.TriggerReceipt{}, err
	}
	return receipt, nil
}

// post sends one buildWithParameters request.
func (j *JenkinsTrigger) post(ctx context.Context, endpoint, body string) (schema.TriggerReceipt, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
	if err != nil {
		return schema.TriggerReceipt{}, backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if j.user != "" {
		httpReq.SetBasicAuth(j.user, j.token)
	}

	resp, err := j.client.Do(httpReq)
	if err != nil {
		return schema.TriggerReceipt{}, fmt.Errorf("failed to reach Jenkins: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch {
	case resp.StatusCode >= 500:
		return schema.TriggerReceipt{}, fmt.Errorf("jenkins responded %s", resp.Status)
	case resp.StatusCode >= 300:
		return schema.TriggerReceipt{}, backoff.Permanent(fmt.Errorf("%w: jenkins responded %s", ErrTriggerRejected, resp.Status))
	}

	return schema.TriggerReceipt{
		Provider:   contract.JenkinsProvider,
		QueueURL:   resp.Header.Get("Location"),
		StatusCode: resp.StatusCode,
	}, nil
}

// buildURL returns the buildWithParameters endpoint of the job.
func (j *JenkinsTrigger) buildURL() string {
	var sb strings.Builder
	sb.WriteString(j.baseURL)
	for segment := range strings.SplitSeq(strings.Trim(j.job, "/"), "/") {
		if segment == "" {
			continue
		}
		sb.WriteString("/job/")
		sb.WriteString(url.PathEscape(segment))
	}
	sb.WriteString("/buildWithParameters")
	return sb.String()
}

// encodeParams maps a request onto Jenkins build parameters. Empty values are omitted.
func encodeParams(req schema.TriggerRequest) url.Values {
	form := url.Values{}
	form.Set(ParamTests, strings.Join(req.Tests, ","))
	for key, value := range map[string]string{
		ParamRunID:     req.RunID,
		ParamBranch:    req.Branch,
		ParamBaseRef:   req.BaseRef,
		ParamTargetRef: req.TargetRef,
		ParamPRNumber:  req.PRNumber,
	} {
		if value != "" {
			form.Set(key, value)
		}
	}
	return form
}

func newBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	return b
}

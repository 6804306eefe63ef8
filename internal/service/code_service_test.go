package service_test

import (
	"sync"
	"testing"
	"time"

	"authd/internal/model"
	"authd/internal/service"

	"gotest.tools/v3/assert"
)

func setupCodeTest(t *testing.T) (*service.CodeService, *model.Client) {
	t.Helper()

	database := newTestDatabase(t)
	userService := service.NewUserService(database, newTestPasswordService())
	clientService := service.NewClientService(database)

	user, err := userService.CreateUser("alice123456", "Secretpass1")
	assert.NilError(t, err)

	client, err := clientService.CreateClient("app_client", user, nil)
	assert.NilError(t, err)

	return service.NewCodeService(database), client
}

func TestCodeIssue(t *testing.T) {
	codeService, client := setupCodeTest(t)

	code, err := codeService.Issue(client, "https://cb/x", 5*time.Minute)
	assert.NilError(t, err)
	assert.Equal(t, code.ClientID, client.ID)
	assert.Equal(t, code.RedirectURI, "https://cb/x")
	assert.Assert(t, !code.IsUsed)
	assert.Assert(t, code.IsValid())

	t.Log("Code values carry at least 32 bytes of entropy")

	assert.Assert(t, len(code.Value) >= 43)

	other, err := codeService.Issue(client, "https://cb/x", 5*time.Minute)
	assert.NilError(t, err)
	assert.Assert(t, other.Value != code.Value)
}

func TestCodeSingleUse(t *testing.T) {
	codeService, client := setupCodeTest(t)

	code, err := codeService.Issue(client, "https://cb/x", 5*time.Minute)
	assert.NilError(t, err)

	consumed, err := codeService.Consume(code.Value, client.ID, "https://cb/x", true)
	assert.NilError(t, err)
	assert.Assert(t, consumed.IsUsed)

	t.Log("An immediately repeated consumption must fail")

	_, err = codeService.Consume(code.Value, client.ID, "https://cb/x", true)
	assert.ErrorIs(t, err, service.ErrInvalidCode)
}

func TestCodeBinding(t *testing.T) {
	codeService, client := setupCodeTest(t)

	code, err := codeService.Issue(client, "https://cb/x", 5*time.Minute)
	assert.NilError(t, err)

	t.Log("Mismatched redirect URI is rejected")

	_, err = codeService.Consume(code.Value, client.ID, "https://cb/y", true)
	assert.ErrorIs(t, err, service.ErrInvalidCode)

	t.Log("Wrong client is rejected")

	_, err = codeService.Consume(code.Value, client.ID+1, "https://cb/x", true)
	assert.ErrorIs(t, err, service.ErrInvalidCode)

	t.Log("The code stays redeemable with the exact binding")

	_, err = codeService.Consume(code.Value, client.ID, "https://cb/x", true)
	assert.NilError(t, err)
}

func TestCodeExpiry(t *testing.T) {
	codeService, client := setupCodeTest(t)

	code, err := codeService.Issue(client, "https://cb/x", -time.Second)
	assert.NilError(t, err)
	assert.Assert(t, code.IsExpired())

	_, err = codeService.Consume(code.Value, client.ID, "https://cb/x", true)
	assert.ErrorIs(t, err, service.ErrInvalidCode)
}

func TestCodePeekDoesNotInvalidate(t *testing.T) {
	codeService, client := setupCodeTest(t)

	code, err := codeService.Issue(client, "https://cb/x", 5*time.Minute)
	assert.NilError(t, err)

	peeked, err := codeService.Consume(code.Value, client.ID, "https://cb/x", false)
	assert.NilError(t, err)
	assert.Assert(t, !peeked.IsUsed)

	_, err = codeService.Consume(code.Value, client.ID, "https://cb/x", true)
	assert.NilError(t, err)
}

func TestCodeConcurrentConsumption(t *testing.T) {
	codeService, client := setupCodeTest(t)

	code, err := codeService.Issue(client, "https://cb/x", 5*time.Minute)
	assert.NilError(t, err)

	const attempts = 8

	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := codeService.Consume(code.Value, client.ID, "https://cb/x", true)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, service.ErrInvalidCode)
		}
	}

	assert.Equal(t, successes, 1, "exactly one concurrent consumption may succeed")
}

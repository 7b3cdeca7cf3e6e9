package alias

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"fjacquet/sms-ledger/internal/config"
	"fjacquet/sms-ledger/internal/container"
	"fjacquet/sms-ledger/internal/ingesterror"
	"fjacquet/sms-ledger/internal/logging"
	"fjacquet/sms-ledger/internal/models"
	"fjacquet/sms-ledger/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAliasCommand_Metadata(t *testing.T) {
	assert.Equal(t, "alias", Cmd.Use)
	assert.Contains(t, Cmd.Short, "merchant aliases")

	names := make([]string, 0)
	for _, c := range Cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"add", "list"}, names)

	categoryFlag := addCmd.Flags().Lookup("category")
	require.NotNil(t, categoryFlag)
	assert.Equal(t, "k", categoryFlag.Shorthand)
	assert.Equal(t, models.CategoryOther, categoryFlag.DefValue)
	assert.Equal(t, "100", addCmd.Flags().Lookup("confidence").DefValue)
	assert.Equal(t, "false", addCmd.Flags().Lookup("exclude").DefValue)
}

func TestAddAlias_InvalidatesResolution(t *testing.T) {
	ctn, err := container.NewContainerWithStore(config.Defaults(), store.NewMemoryStore(), logging.NewMockLogger())
	require.NoError(t, err)
	ctx := context.Background()

	before := ctn.GetResolver().Resolve(ctx, "chai point")
	assert.Equal(t, models.CategoryOther, before.Category)

	category, confidence, exclude = models.CategoryFood, userAliasConfidence, false
	var out bytes.Buffer
	require.NoError(t, addAlias(ctx, ctn.GetResolver(), "Chai Point", "Chai Point", &out))
	assert.Contains(t, out.String(), `Alias "chai point" -> Chai Point (Food & Dining, confidence 100)`)

	after := ctn.GetResolver().Resolve(ctx, "chai point")
	assert.Equal(t, models.CategoryFood, after.Category)
	assert.Equal(t, "Chai Point", after.DisplayName)

	out.Reset()
	require.NoError(t, listAliases(ctx, ctn.GetStore(), &out))
	assert.Contains(t, out.String(), "PATTERN")
	assert.Contains(t, out.String(), "chai point")
	assert.Contains(t, out.String(), "user")
	assert.Contains(t, out.String(), "system")
}

func TestAddAlias_Excluded(t *testing.T) {
	ctn, err := container.NewContainerWithStore(config.Defaults(), store.NewMemoryStore(), logging.NewMockLogger())
	require.NoError(t, err)
	ctx := context.Background()

	category, confidence, exclude = models.CategoryTransfers, userAliasConfidence, true
	defer func() { exclude = false }()
	require.NoError(t, addAlias(ctx, ctn.GetResolver(), "Self Transfer", "Own Account", &bytes.Buffer{}))

	res := ctn.GetResolver().Resolve(ctx, "self transfer sbi")
	assert.True(t, res.ExcludeFromExpenses)

	var out bytes.Buffer
	require.NoError(t, listAliases(ctx, ctn.GetStore(), &out))
	assert.Contains(t, out.String(), "EXCLUDED")
	assert.Contains(t, out.String(), "yes")
}

func TestAddAlias_Validation(t *testing.T) {
	ctn, err := container.NewContainerWithStore(config.Defaults(), store.NewMemoryStore(), logging.NewMockLogger())
	require.NoError(t, err)

	err = addAlias(context.Background(), ctn.GetResolver(), "!!!", "Nobody", &bytes.Buffer{})
	var ve *ingesterror.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "pattern", ve.Field)
}

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"meteo-bot-go/internal/model"
)

func newTestReplyService(clock *fakeClock) ReplyService {
	return NewReplyService(newTestContextService(clock))
}

func TestDecide_WeatherWithExtractedCity(t *testing.T) {
	clock := newFakeClock()
	svc := newTestReplyService(clock)

	// 本轮提取到的城市永远优先于记忆中的城市
	ctx := model.ConversationContext{LastCity: "Lyon", LastInteraction: clock.Now()}
	d := svc.Decide(ctx, model.IntentWeather, "Tokyo")

	require.Equal(t, DirectiveFetchWeather, d.Kind)
	require.Equal(t, "Tokyo", d.City)
}

func TestDecide_WeatherWithRememberedCity(t *testing.T) {
	clock := newFakeClock()
	svc := newTestReplyService(clock)

	ctx := model.ConversationContext{LastCity: "Lyon", LastInteraction: clock.Now().Add(-2 * time.Minute)}
	d := svc.Decide(ctx, model.IntentWeather, "")

	require.Equal(t, DirectiveSuggestRememberedCity, d.Kind)
	require.Equal(t, "Lyon", d.City)
}

func TestDecide_WeatherWithStaleCity(t *testing.T) {
	clock := newFakeClock()
	svc := newTestReplyService(clock)

	ctx := model.ConversationContext{LastCity: "Lyon", LastInteraction: clock.Now().Add(-10 * time.Minute)}
	d := svc.Decide(ctx, model.IntentWeather, "")

	require.Equal(t, DirectiveGenericWeatherPrompt, d.Kind)
	require.Empty(t, d.City)
}

func TestDecide_GreetingFirstContact(t *testing.T) {
	clock := newFakeClock()
	svc := newTestReplyService(clock)

	d := svc.Decide(model.ConversationContext{}, model.IntentGreeting, "")
	require.Equal(t, DirectiveCannedReply, d.Kind)
}

func TestDecide_GreetingReturningUser(t *testing.T) {
	clock := newFakeClock()
	svc := newTestReplyService(clock)

	ctx := model.ConversationContext{
		LastCity:        "Paris",
		MessageHistory:  []string{"météo à paris"},
		LastInteraction: clock.Now(),
	}
	d := svc.Decide(ctx, model.IntentGreeting, "")

	require.Equal(t, DirectiveWelcomeBack, d.Kind)
	require.Equal(t, "Paris", d.City)
}

func TestDecide_UnknownIntent(t *testing.T) {
	clock := newFakeClock()
	svc := newTestReplyService(clock)

	d := svc.Decide(model.ConversationContext{}, model.IntentUnknown, "")
	require.Equal(t, DirectiveClarification, d.Kind)
}

func TestDecide_CannedIntents(t *testing.T) {
	clock := newFakeClock()
	svc := newTestReplyService(clock)

	for _, intent := range []model.Intent{model.IntentHelp, model.IntentThanks, model.IntentGoodbye} {
		d := svc.Decide(model.ConversationContext{}, intent, "")
		require.Equal(t, DirectiveCannedReply, d.Kind)
	}
}

func TestSuggestRememberedCity(t *testing.T) {
	svc := newTestReplyService(newFakeClock())
	msg := svc.SuggestRememberedCity("Lyon")
	require.Contains(t, msg, "*Lyon*")
	require.Contains(t, msg, "la dernière fois")
}

func TestWelcomeBack(t *testing.T) {
	svc := newTestReplyService(newFakeClock())

	withCity := svc.WelcomeBack("Paris")
	require.Contains(t, withCity, "Re-bonjour")
	require.Contains(t, withCity, "Paris")

	withoutCity := svc.WelcomeBack("")
	require.Contains(t, withoutCity, "Re-bonjour")
	require.NotContains(t, withoutCity, "dernière fois")
}

func TestCanned(t *testing.T) {
	svc := newTestReplyService(newFakeClock())

	require.Contains(t, svc.Canned(model.IntentGreeting, "Alice"), "Salut Alice !")
	require.Contains(t, svc.Canned(model.IntentGreeting, ""), "Salut l'ami !")
	require.Contains(t, svc.Canned(model.IntentHelp, ""), "comment m'utiliser")
	require.Contains(t, svc.Canned(model.IntentThanks, ""), "De rien")
	require.Contains(t, svc.Canned(model.IntentGoodbye, ""), "À bientôt")
	require.Contains(t, svc.Canned(model.IntentWeather, ""), "Donne-moi le nom d'une ville")
	require.Contains(t, svc.Canned(model.IntentUnknown, ""), "Je n'ai pas bien compris")
}

func TestCityNotFound(t *testing.T) {
	svc := newTestReplyService(newFakeClock())
	require.Contains(t, svc.CityNotFound(), "je n'ai pas trouvé cette ville")
}

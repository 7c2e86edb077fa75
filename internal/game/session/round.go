package session

import (
	"log"
	"time"

	"github.com/palemoky/guts/internal/apperrors"
	"github.com/palemoky/guts/internal/game/card"
	"github.com/palemoky/guts/internal/game/economy"
	"github.com/palemoky/guts/internal/protocol"
	"github.com/palemoky/guts/internal/protocol/convert"
)

// 单轮内部的停顿，给客户端留出展示时间。
// 轮与轮之间不设自动推进，由房主通过 StartNextRound 驱动。
const (
	firstRoundDelay = 2 * time.Second // 开局到第一轮
	revealDelay     = 2 * time.Second // 亮牌到结算
)

// Start 房主开始游戏。所有玩家余额重置为买入额，随后进入第一轮。
func (g *Game) Start(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseLobby {
		return apperrors.ErrGameStarted
	}
	if playerID != g.hostID {
		return apperrors.ErrNotHost
	}
	if len(g.players) < 2 {
		return apperrors.ErrTooFewPlayers
	}

	g.phase = PhasePlaying
	g.round = 0
	g.pot = 0
	g.pendingEnd = false
	g.roundTurn = RoundResolved
	for _, p := range g.players {
		p.Wallet = g.buyIn
		p.Hand = nil
		p.Active = true
		p.SittingOut = false
	}

	g.touch()
	log.Printf("🎮 房间 %s 开始游戏，%d 名玩家，买入 $%.2f", g.Code, len(g.players), g.buyIn.Dollars())

	g.broadcast(protocol.MustNewMessage(protocol.MsgGameStarted, protocol.GameStartedPayload{
		Players: g.playerInfos(),
		BuyIn:   g.buyIn.Dollars(),
	}))

	g.sched.After(firstRoundDelay, func() {
		g.dispatch(0, g.startRoundLocked)
	})
	g.notifyChange()
	return nil
}

// StartNextRound 房主推进对局。已结算的轮次进入下一轮；
// 有玩家战胜牌堆后用于收尾终局；终局展示后用于把房间重置回大厅。
func (g *Game) StartNextRound(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID != g.hostID {
		return apperrors.ErrNotHost
	}

	if g.phase == PhaseEnded {
		g.resetLocked()
		return nil
	}
	if g.phase != PhasePlaying {
		return apperrors.ErrGameNotStart
	}
	if g.roundTurn != RoundResolved {
		return apperrors.ErrRoundInProgress
	}
	if g.pendingEnd {
		g.endGameLocked(EndReasonDeckWon)
		return nil
	}
	if len(g.debtorsLocked()) > 0 {
		return apperrors.ErrBlockedByDebt
	}

	g.startRoundLocked()
	return nil
}

// HandleDecision 处理跟注/弃牌
func (g *Game) HandleDecision(playerID string, d Decision) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return apperrors.ErrGameNotStart
	}
	if g.roundTurn != RoundAwaitingDecisions {
		return apperrors.ErrNoActiveRound
	}
	p, ok := g.players[playerID]
	if !ok {
		return apperrors.ErrNotInRoom
	}
	if p.SittingOut {
		return apperrors.ErrNoActiveRound
	}
	if !d.Valid() {
		return apperrors.ErrInvalidDecision
	}
	if _, decided := g.decisions[playerID]; decided {
		return apperrors.ErrAlreadyDecided
	}

	g.decisions[playerID] = d
	if d == DecisionHold {
		g.holdOrder = append(g.holdOrder, playerID)
	}
	g.touch()

	active := g.activePlayersLocked()
	g.broadcast(protocol.MustNewMessage(protocol.MsgPlayerDecided, protocol.PlayerDecidedPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Decided:    len(g.decisions),
		Total:      len(active),
	}))

	g.maybeResolveLocked()
	g.notifyChange()
	return nil
}

// BuyBackIn 补充买入。负债玩家的金额必须至少清偿全部负债，
// 未负债的玩家可以随时追加任意正数金额。
func (g *Game) BuyBackIn(playerID string, dollars float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return apperrors.ErrGameNotStart
	}
	p, ok := g.players[playerID]
	if !ok {
		return apperrors.ErrNotInRoom
	}

	amount := economy.FromDollars(dollars)
	if amount <= 0 || amount < p.Wallet.Debt() {
		return apperrors.ErrBuyBackTooSmall
	}

	p.Wallet += amount
	g.touch()
	log.Printf("💰 玩家 %s 补充买入 $%.2f，余额 $%.2f (房间 %s)", p.Name, amount.Dollars(), p.Wallet.Dollars(), g.Code)

	g.broadcast(protocol.MustNewMessage(protocol.MsgBuyBackResult, protocol.BuyBackResultPayload{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Amount:     amount.Dollars(),
		Balance:    p.Wallet.Dollars(),
	}))
	g.broadcast(protocol.MustNewMessage(protocol.MsgPlayerBalanceUpdated, protocol.BalanceUpdatedPayload{
		PlayerID: p.ID,
		Balance:  p.Wallet.Dollars(),
	}))

	g.notifyChange()
	return nil
}

// End 房主结束整局游戏
func (g *Game) End(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return apperrors.ErrGameNotStart
	}
	if playerID != g.hostID {
		return apperrors.ErrNotHost
	}

	g.endGameLocked(EndReasonHostEnded)
	return nil
}

// dispatch 定时回调的统一入口：加锁后校验轮次，过期任务静默丢弃
func (g *Game) dispatch(round int, fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying || g.round != round {
		return
	}
	fn()
}

// startRoundLocked 开始新一轮。有人负债时广播阻塞通知并保持可重试状态。
func (g *Game) startRoundLocked() {
	if debtors := g.debtorsLocked(); len(debtors) > 0 {
		infos := make([]protocol.PlayerInfo, len(debtors))
		for i, p := range debtors {
			infos[i] = p.info(g.hostID)
		}
		g.broadcast(protocol.MustNewMessage(protocol.MsgRoundBlockedDebt, protocol.RoundBlockedDebtPayload{
			Debtors: infos,
		}))
		log.Printf("🚫 房间 %s 第 %d 轮被负债阻塞（%d 人）", g.Code, g.round+1, len(debtors))
		return
	}

	// 付得起底注的玩家不足两人时无法继续，直接终局
	ante := economy.FromDollars(g.cfg.Ante)
	funded := 0
	for _, id := range g.order {
		if p := g.players[id]; p.Active && p.Wallet >= ante {
			funded++
		}
	}
	if funded < 2 {
		log.Printf("🏳️ 房间 %s 仅 %d 名玩家付得起底注，游戏结束", g.Code, funded)
		g.endGameLocked(EndReasonTooFewFunded)
		return
	}

	deck := card.NewDeck()
	if err := deck.Shuffle(); err != nil {
		log.Printf("❌ 房间 %s 洗牌失败: %v", g.Code, err)
		g.broadcast(protocol.NewErrorMessage(protocol.ErrCodeInternal))
		return
	}

	g.round++
	g.roundTurn = RoundAwaitingDecisions
	g.deck = deck
	g.decisions = make(map[string]Decision)
	g.holdOrder = nil
	g.timeLeft = g.cfg.DecisionTimeout

	// 只向仍在局中的玩家收取底注，付不起的本轮旁观
	accounts := make([]economy.Account, 0, len(g.order))
	for _, id := range g.order {
		if p := g.players[id]; p.Active {
			accounts = append(accounts, p)
		}
	}
	newPot, paid := economy.CollectAntes(accounts, ante, g.pot)
	g.pot = newPot

	paidSet := make(map[economy.Account]bool, len(paid))
	for _, a := range paid {
		paidSet[a] = true
	}
	var sittingOut []string
	for _, id := range g.order {
		p := g.players[id]
		p.SittingOut = !p.Active || !paidSet[p]
		p.Hand = nil
		if p.Active && p.SittingOut {
			sittingOut = append(sittingOut, id)
		}
	}

	// 发牌
	for _, p := range g.activePlayersLocked() {
		hand, err := g.deck.Deal(3)
		if err != nil {
			log.Printf("❌ 房间 %s 发牌失败: %v", g.Code, err)
			g.broadcast(protocol.NewErrorMessage(protocol.ErrCodeInternal))
			return
		}
		p.Hand = hand
	}

	g.touch()
	log.Printf("🃏 房间 %s 第 %d 轮开始，奖池 $%.2f", g.Code, g.round, g.pot.Dollars())

	g.broadcast(protocol.MustNewMessage(protocol.MsgRoundStarted, protocol.RoundStartedPayload{
		Round:      g.round,
		Pot:        g.pot.Dollars(),
		Ante:       ante.Dollars(),
		SittingOut: sittingOut,
	}))
	for _, p := range g.activePlayersLocked() {
		p.send(protocol.MustNewMessage(protocol.MsgCardsDealt, protocol.CardsDealtPayload{
			Round: g.round,
			Cards: convert.CardsToInfos(p.Hand),
		}))
	}

	g.startDecisionTimerLocked()
	g.notifyChange()
}

// maybeResolveLocked 全员决定后触发结算
func (g *Game) maybeResolveLocked() {
	if g.roundTurn != RoundAwaitingDecisions {
		return
	}
	for _, p := range g.activePlayersLocked() {
		if _, ok := g.decisions[p.ID]; !ok {
			return
		}
	}
	g.resolveRoundLocked()
}

// resolveRoundLocked 结算本轮。子阶段切换保证只执行一次。
func (g *Game) resolveRoundLocked() {
	if g.roundTurn != RoundAwaitingDecisions {
		return
	}
	g.roundTurn = RoundResolving
	g.sched.StopAll()
	g.timeLeft = 0

	nothing := g.isNothingRoundLocked()
	active := g.activePlayersLocked()
	entries := make([]protocol.RevealEntry, 0, len(active))
	for _, p := range active {
		d, ok := g.decisions[p.ID]
		if !ok {
			d = DecisionDrop
		}
		entries = append(entries, protocol.RevealEntry{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Decision:   string(d),
			Cards:      convert.CardsToInfos(p.Hand),
			HandName:   g.handNameLocked(p.Hand, nothing),
		})
	}

	holders := make([]string, 0, len(g.holdOrder))
	for _, id := range g.holdOrder {
		if _, ok := g.players[id]; ok {
			holders = append(holders, id)
		}
	}

	g.broadcast(protocol.MustNewMessage(protocol.MsgRoundReveal, protocol.RoundRevealPayload{
		Round:   g.round,
		Pot:     g.pot.Dollars(),
		Entries: entries,
		Holders: holders,
	}))

	cur := g.round
	g.sched.After(revealDelay, func() {
		g.dispatch(cur, func() {
			g.settleLocked(holders)
		})
	})
}

// settleLocked 根据跟注人数分派结算路径
func (g *Game) settleLocked(holders []string) {
	if g.roundTurn != RoundResolving {
		return
	}

	switch len(holders) {
	case 0:
		// 全员弃牌，奖池原样滚存
		log.Printf("🤷 房间 %s 第 %d 轮全员弃牌，奖池 $%.2f 滚存", g.Code, g.round, g.pot.Dollars())
		g.broadcast(protocol.MustNewMessage(protocol.MsgAllDropped, protocol.AllDroppedPayload{
			Round: g.round,
			Pot:   g.pot.Dollars(),
		}))
		g.finishRoundLocked()
	case 1:
		g.deckShowdownLocked(holders[0])
	default:
		g.multiHolderShowdownLocked(holders)
	}
}

// multiHolderShowdownLocked 多人跟注：最佳手牌赢下奖池，其余每人赔付一份奖池。
// 手牌完全相同时，先做出决定的玩家获胜。
func (g *Game) multiHolderShowdownLocked(holders []string) {
	nothing := g.isNothingRoundLocked()

	winner := g.players[holders[0]]
	winnerEval, err := card.Evaluate(winner.Hand, nothing)
	if err != nil {
		log.Printf("❌ 房间 %s 结算失败: %v", g.Code, err)
		return
	}
	for _, id := range holders[1:] {
		p := g.players[id]
		eval, err := card.Evaluate(p.Hand, nothing)
		if err != nil {
			log.Printf("❌ 房间 %s 结算失败: %v", g.Code, err)
			return
		}
		if card.Compare(eval, winnerEval) > 0 {
			winner, winnerEval = p, eval
		}
	}

	losers := make([]*Player, 0, len(holders)-1)
	loserAccounts := make([]economy.Account, 0, len(holders)-1)
	for _, id := range holders {
		if id != winner.ID {
			losers = append(losers, g.players[id])
			loserAccounts = append(loserAccounts, g.players[id])
		}
	}

	res := economy.SettleMultiHolder(winner, loserAccounts, g.pot)
	g.pot = res.NewPot

	loserResults := make([]protocol.LoserResult, len(losers))
	for i, p := range losers {
		loserResults[i] = protocol.LoserResult{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Paid:       res.Payments[i].Dollars(),
			Balance:    p.Wallet.Dollars(),
			InDebt:     p.Wallet.InDebt(),
		}
	}

	log.Printf("🏆 房间 %s 第 %d 轮 %s 胜出，赢得 $%.2f，新奖池 $%.2f",
		g.Code, g.round, winner.Name, res.WinAmount.Dollars(), g.pot.Dollars())

	g.broadcast(protocol.MustNewMessage(protocol.MsgMultiHoldersResult, protocol.MultiHoldersResultPayload{
		WinnerID:   winner.ID,
		WinnerName: winner.Name,
		HandName:   winnerEval.Category.String(),
		WinAmount:  res.WinAmount.Dollars(),
		Losers:     loserResults,
		NewPot:     g.pot.Dollars(),
	}))
	g.broadcast(protocol.MustNewMessage(protocol.MsgPlayerBalanceUpdated, protocol.BalanceUpdatedPayload{
		PlayerID: winner.ID,
		Balance:  winner.Wallet.Dollars(),
	}))
	g.notifyDebtorsLocked(losers)

	g.finishRoundLocked()
}

// deckShowdownLocked 单人跟注：从牌堆发三张对决。
// 战胜牌堆赢下奖池并终结游戏；平局或落败须赔付一份奖池。
func (g *Game) deckShowdownLocked(holderID string) {
	holder, ok := g.players[holderID]
	if !ok {
		g.finishRoundLocked()
		return
	}

	deckHand, err := g.deck.Deal(3)
	if err != nil {
		log.Printf("❌ 房间 %s 牌堆发牌失败: %v", g.Code, err)
		return
	}

	nothing := g.isNothingRoundLocked()
	holderEval, err := card.Evaluate(holder.Hand, nothing)
	if err != nil {
		log.Printf("❌ 房间 %s 结算失败: %v", g.Code, err)
		return
	}
	deckEval, err := card.Evaluate(deckHand, nothing)
	if err != nil {
		log.Printf("❌ 房间 %s 结算失败: %v", g.Code, err)
		return
	}

	g.broadcast(protocol.MustNewMessage(protocol.MsgHolderVsDeck, protocol.HolderVsDeckPayload{
		HolderID:     holder.ID,
		HolderName:   holder.Name,
		HolderHand:   convert.CardsToInfos(holder.Hand),
		HolderRank:   holderEval.Category.String(),
		DeckHand:     convert.CardsToInfos(deckHand),
		DeckHandName: deckEval.Category.String(),
	}))

	// 必须严格大于牌堆，平局视为失败
	holderWon := card.Compare(holderEval, deckEval) > 0
	res := economy.SettleDeckShowdown(holder, g.pot, holderWon)
	g.pot = res.NewPot
	g.pendingEnd = res.PendingEnd

	g.broadcast(protocol.MustNewMessage(protocol.MsgDeckShowdownResult, protocol.DeckShowdownResultPayload{
		HolderID:   holder.ID,
		HolderName: holder.Name,
		HolderWon:  holderWon,
		Amount:     res.Amount.Dollars(),
		NewPot:     g.pot.Dollars(),
		Balance:    holder.Wallet.Dollars(),
		PendingEnd: res.PendingEnd,
	}))

	// 战胜牌堆后进入待终局状态，由房主推进收尾
	if holderWon {
		log.Printf("🎉 房间 %s 玩家 %s 战胜牌堆，赢得 $%.2f，等待房主收尾", g.Code, holder.Name, res.Amount.Dollars())
		g.roundTurn = RoundResolved
		g.touch()
		g.notifyChange()
		return
	}

	log.Printf("💸 房间 %s 玩家 %s 不敌牌堆，赔付 $%.2f，新奖池 $%.2f",
		g.Code, holder.Name, res.Amount.Dollars(), g.pot.Dollars())
	if res.WentIntoDebt {
		g.notifyDebtorsLocked([]*Player{holder})
	}
	g.finishRoundLocked()
}

// finishRoundLocked 标记本轮已结算，等待房主开始下一轮
func (g *Game) finishRoundLocked() {
	g.roundTurn = RoundResolved
	g.touch()
	g.notifyChange()
}

// endGameLocked 终局：广播结算榜，由房主把房间重置回大厅
func (g *Game) endGameLocked(reason string) {
	g.phase = PhaseEnded
	g.roundTurn = RoundIdle
	g.sched.StopAll()
	g.touch()

	standings := make([]protocol.PlayerStanding, 0, len(g.order))
	for _, id := range g.order {
		p := g.players[id]
		standings = append(standings, protocol.PlayerStanding{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Balance:    p.Wallet.Dollars(),
			Net:        (p.Wallet - g.buyIn).Dollars(),
		})
	}

	log.Printf("🏁 房间 %s 游戏结束 (%s)", g.Code, reason)
	g.broadcast(protocol.MustNewMessage(protocol.MsgGameEnded, protocol.GameEndedPayload{
		Reason:    reason,
		Standings: standings,
	}))
	g.notifyChange()
}

// resetLocked 房间回到大厅，可重新开局。
// 中途退出的玩家席位此时释放，余额统一清零等待下次买入。
func (g *Game) resetLocked() {
	g.phase = PhaseLobby
	g.roundTurn = RoundIdle
	g.pot = 0
	g.round = 0
	g.pendingEnd = false
	g.decisions = make(map[string]Decision)
	g.holdOrder = nil
	g.timeLeft = 0

	kept := g.order[:0]
	for _, id := range g.order {
		p := g.players[id]
		if !p.Active {
			delete(g.players, id)
			continue
		}
		p.Seat = len(kept)
		kept = append(kept, id)
		p.Wallet = 0
		p.Hand = nil
		p.SittingOut = false
	}
	g.order = kept
	if _, ok := g.players[g.hostID]; !ok {
		g.hostID = ""
		if len(g.order) > 0 {
			g.hostID = g.order[0]
		}
	}
	g.touch()

	g.broadcast(protocol.MustNewMessage(protocol.MsgGameReset, protocol.GameResetPayload{
		RoomCode: g.Code,
	}))
	g.notifyChange()
}

// --- 辅助 ---

// activePlayersLocked 本轮参与的玩家（按入座顺序）
func (g *Game) activePlayersLocked() []*Player {
	out := make([]*Player, 0, len(g.order))
	for _, id := range g.order {
		if p := g.players[id]; p.Active && !p.SittingOut {
			out = append(out, p)
		}
	}
	return out
}

// debtorsLocked 当前负债且仍在局中的玩家。
// 已退出的负债玩家不再阻塞后续轮次。
func (g *Game) debtorsLocked() []*Player {
	var out []*Player
	for _, id := range g.order {
		if p := g.players[id]; p.Active && p.Wallet.InDebt() {
			out = append(out, p)
		}
	}
	return out
}

// isNothingRoundLocked 前几轮只比单张大小
func (g *Game) isNothingRoundLocked() bool {
	return g.round <= g.cfg.NothingRounds
}

func (g *Game) handNameLocked(hand []card.Card, nothing bool) string {
	eval, err := card.Evaluate(hand, nothing)
	if err != nil {
		return ""
	}
	return eval.Category.String()
}

// notifyDebtorsLocked 广播新进入负债的玩家
func (g *Game) notifyDebtorsLocked(players []*Player) {
	for _, p := range players {
		if !p.Wallet.InDebt() {
			continue
		}
		log.Printf("⚠️ 玩家 %s 负债 $%.2f (房间 %s)", p.Name, p.Wallet.Debt().Dollars(), g.Code)
		g.broadcast(protocol.MustNewMessage(protocol.MsgPlayerInDebt, protocol.PlayerInDebtPayload{
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Debt:       p.Wallet.Debt().Dollars(),
		}))
	}
}

package server

import (
	"math/rand"
)

// 默认昵称词库，玩家未提供名字时使用
var (
	nicknameAdjectives = []string{
		"胆大的", "冷静的", "狡黠的", "豪爽的", "谨慎的",
		"神秘的", "疯狂的", "淡定的", "幸运的", "莽撞的",
		"稳重的", "张扬的", "佛系的", "犀利的", "执着的",
	}

	nicknameNouns = []string{
		"牌手", "赌神", "老千", "新手", "常客",
		"猎人", "钓鱼佬", "守财奴", "大户", "散户",
		"黑马", "老狐狸", "夜猫子", "扑克脸", "盲注王",
	}
)

// GenerateNickname 生成随机昵称
func GenerateNickname() string {
	adj := nicknameAdjectives[rand.Intn(len(nicknameAdjectives))]
	noun := nicknameNouns[rand.Intn(len(nicknameNouns))]
	return adj + noun
}

package routing

// Server はツールを提供するサーバーを表す型
type Server string

// サーバーカテゴリの定数定義
const (
	ServerGeo     Server = "geo"     // ジオコーディング・POI検索
	ServerRouting Server = "routing" // 経路・距離計算
	ServerWeather Server = "weather" // 天気情報
)

// String はServerの文字列表現を返す
func (s Server) String() string {
	return string(s)
}

// Decision はルーティング決定の結果を表す
type Decision struct {
	Server    Server                 // 決定されたサーバー
	Tool      string                 // 実行するツール名
	Arguments map[string]interface{} // 抽出された引数
}

// NewDecision は新しいDecisionを作成
func NewDecision(server Server, tool string, arguments map[string]interface{}) Decision {
	return Decision{
		Server:    server,
		Tool:      tool,
		Arguments: arguments,
	}
}
